// Package commerce emits the fixed-schema KEY: value blocks for
// catalog items. Downstream consumers parse these by exact key name.
package commerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/protocontext/compiler/models"
)

// Wire keys of the Details block.
const (
	KeyProductID     = "PRODUCT_ID"
	KeyPrice         = "PRICE"
	KeyRegularPrice  = "REGULAR_PRICE"
	KeySalePrice     = "SALE_PRICE"
	KeyCurrency      = "CURRENCY"
	KeyStockStatus   = "STOCK_STATUS"
	KeyStockQuantity = "STOCK_QUANTITY"
	KeyCategory      = "CATEGORY"
	KeyTags          = "TAGS"
	KeyWeight        = "WEIGHT"
	KeyDimensions    = "DIMENSIONS"
	KeyPurchaseURL   = "PURCHASE_URL"
	KeyAction        = "ACTION"
	KeyImageURL      = "IMAGE_URL"
)

// ActionPurchase is the fixed action tag for purchasable items.
const ActionPurchase = "purchase_product"

// MaxRelated caps the Related block.
const MaxRelated = 4

// Sections builds the ordered commerce sections for a catalog item:
// Details always, then Specifications, Available Variations, and
// Related when the product carries them. Non-product items yield nil.
func Sections(item *models.ContentItem, cfg models.SiteConfig) []models.Section {
	if item == nil || item.Kind != models.KindProduct {
		return nil
	}

	p := item.Product
	if p == nil {
		p = &models.ProductData{}
	}

	sections := []models.Section{{Title: "Details", Body: detailsBlock(item, p, cfg).Render()}}

	if spec := specificationsBlock(p); spec != nil {
		sections = append(sections, models.Section{Title: "Specifications", Body: spec.Render()})
	}
	if len(p.Variations) > 0 {
		sections = append(sections, models.Section{Title: "Available Variations", Body: variationLines(p)})
	}
	if len(p.Related) > 0 {
		sections = append(sections, models.Section{Title: "Related", Body: relatedLines(p, cfg)})
	}

	return sections
}

// detailsBlock emits the core transactional pairs. The identifier is
// always present, synthesized from the item id when there is no SKU.
func detailsBlock(item *models.ContentItem, p *models.ProductData, cfg models.SiteConfig) *models.StructuredBlock {
	b := &models.StructuredBlock{}
	b.Add(KeyProductID, item.Identifier())
	b.Add(KeyPrice, p.Price)
	if p.OnSale {
		b.Add(KeyRegularPrice, p.RegularPrice)
		b.Add(KeySalePrice, p.SalePrice)
	}
	b.Add(KeyCurrency, currency(p, cfg))
	b.Add(KeyStockStatus, models.StockStatus(p.InStock))
	if p.ManagesStock {
		b.Add(KeyStockQuantity, strconv.Itoa(p.StockQuantity))
	}
	b.Add(KeyCategory, strings.Join(item.Terms, ", "))
	b.Add(KeyTags, strings.Join(item.Tags, ", "))
	b.Add(KeyWeight, p.Weight)
	b.Add(KeyDimensions, p.Dimensions)
	b.Add(KeyPurchaseURL, itemURL(cfg, item.RelPath()))
	b.Add(KeyAction, ActionPurchase)
	b.Add(KeyImageURL, p.ImageURL)
	return b
}

// specificationsBlock maps product attributes to upper-cased keys.
// Returns nil when the product has no attributes.
func specificationsBlock(p *models.ProductData) *models.StructuredBlock {
	if len(p.Attributes) == 0 {
		return nil
	}
	b := &models.StructuredBlock{}
	for _, attr := range p.Attributes {
		b.Add(specKey(attr.Name), attr.Value)
	}
	if len(b.Pairs) == 0 {
		return nil
	}
	return b
}

// specKey converts an attribute name to a wire key: upper-cased with
// runs of non-alphanumerics folded to single underscores.
func specKey(name string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			sb.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// variationLines renders one line per purchasable combination.
func variationLines(p *models.ProductData) string {
	lines := make([]string, 0, len(p.Variations))
	for i, v := range p.Variations {
		sku := v.SKU
		if sku == "" {
			sku = fmt.Sprintf("variation-%d", i+1)
		}
		line := fmt.Sprintf("- %s: %s (%s, %s)", v.Attributes, v.Price, sku, models.StockStatus(v.InStock))
		if v.Price == "" {
			line = fmt.Sprintf("- %s (%s, %s)", v.Attributes, sku, models.StockStatus(v.InStock))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// relatedLines renders up to MaxRelated links to the related items'
// own compiled documents.
func relatedLines(p *models.ProductData, cfg models.SiteConfig) string {
	related := p.Related
	if len(related) > MaxRelated {
		related = related[:MaxRelated]
	}
	lines := make([]string, 0, len(related))
	for _, r := range related {
		url := itemURL(cfg, models.KindProduct.TypeLabel()+"/"+r.Slug) + "/context.txt"
		if r.Price != "" {
			lines = append(lines, fmt.Sprintf("- %s (%s): %s", r.Title, r.Price, url))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, url))
	}
	return strings.Join(lines, "\n")
}

func currency(p *models.ProductData, cfg models.SiteConfig) string {
	if p.Currency != "" {
		return p.Currency
	}
	return cfg.Currency
}

// itemURL joins the site base URL with a relative item path.
func itemURL(cfg models.SiteConfig, relPath string) string {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		return "/" + relPath
	}
	return base + "/" + relPath
}
