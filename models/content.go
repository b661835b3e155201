package models

import (
	"fmt"
	"time"
)

// Kind tags the flavor of a content item. Path construction and
// structured-block emission dispatch on it.
type Kind string

const (
	KindPage     Kind = "page"
	KindPost     Kind = "post"
	KindProduct  Kind = "product"
	KindCategory Kind = "category"
)

// TypeLabel returns the URL path prefix for items of this kind.
// Top-level pages live at their own slug and have no prefix.
func (k Kind) TypeLabel() string {
	switch k {
	case KindPost:
		return "posts"
	case KindProduct:
		return "products"
	case KindCategory:
		return "categories"
	default:
		return ""
	}
}

// GroupLabel returns the human-readable sitemap group heading for this kind.
func (k Kind) GroupLabel() string {
	switch k {
	case KindPost:
		return "Posts"
	case KindProduct:
		return "Products"
	case KindCategory:
		return "Categories"
	default:
		return "Pages"
	}
}

// ContentItem is one compilable unit from the source system. The compiler
// only ever reads a snapshot; nothing here is mutated during a compile.
type ContentItem struct {
	ID         int64        `json:"id"`
	Kind       Kind         `json:"kind"`
	Slug       string       `json:"slug"`
	Title      string       `json:"title"`
	Body       string       `json:"body,omitempty"`
	Excerpt    string       `json:"excerpt,omitempty"`
	ParentSlug string       `json:"parent_slug,omitempty"`
	Terms      []string     `json:"terms,omitempty"`
	Tags       []string     `json:"tags,omitempty"`
	Modified   time.Time    `json:"modified"`
	Fields     *FieldValue  `json:"-"`
	Product    *ProductData `json:"product,omitempty"`
}

// RelPath computes the canonical relative path for the item:
// type-labelled kinds get "{label}/{slug}", children get
// "{parent-slug}/{slug}", top-level pages are just "{slug}".
func (it *ContentItem) RelPath() string {
	if label := it.Kind.TypeLabel(); label != "" {
		return fmt.Sprintf("%s/%s", label, it.Slug)
	}
	if it.ParentSlug != "" {
		return fmt.Sprintf("%s/%s", it.ParentSlug, it.Slug)
	}
	return it.Slug
}

// Identifier returns the item's SKU when it has one, otherwise a
// synthesized identifier derived from the item id. Never empty.
func (it *ContentItem) Identifier() string {
	if it.Product != nil && it.Product.SKU != "" {
		return it.Product.SKU
	}
	return fmt.Sprintf("item-%d", it.ID)
}

// ProductData carries the commerce fields of a catalog item. Prices are
// kept as decimal strings to survive round-tripping without float noise.
type ProductData struct {
	SKU           string       `json:"sku,omitempty"`
	Price         string       `json:"price,omitempty"`
	RegularPrice  string       `json:"regular_price,omitempty"`
	SalePrice     string       `json:"sale_price,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	OnSale        bool         `json:"on_sale,omitempty"`
	InStock       bool         `json:"in_stock"`
	ManagesStock  bool         `json:"manages_stock,omitempty"`
	StockQuantity int          `json:"stock_quantity,omitempty"`
	Weight        string       `json:"weight,omitempty"`
	Dimensions    string       `json:"dimensions,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	Attributes    []Attribute  `json:"attributes,omitempty"`
	Variations    []Variation  `json:"variations,omitempty"`
	Related       []RelatedRef `json:"related,omitempty"`
}

// Attribute is a single specification pair, e.g. "Material" -> "Oak".
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variation is one purchasable combination of a variable product.
type Variation struct {
	Attributes string `json:"attributes"`
	Price      string `json:"price,omitempty"`
	SKU        string `json:"sku,omitempty"`
	InStock    bool   `json:"in_stock"`
}

// RelatedRef points at another catalog item by slug.
type RelatedRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Price string `json:"price,omitempty"`
}

// StockStatus renders the stock state in the fixed wire vocabulary.
func StockStatus(inStock bool) string {
	if inStock {
		return "in_stock"
	}
	return "out_of_stock"
}
