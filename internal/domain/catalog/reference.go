package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidReference = errors.New("invalid price/product ID")

type Kind int

const (
	KindPrice Kind = iota + 1
	KindProduct
)

const (
	pricePrefix   = "price_"
	productPrefix = "prod_"
)

// Reference points at something sellable: either a concrete price or a product
// whose first active price must be looked up.
type Reference struct {
	Kind Kind
	ID   string
}

func Price(id string) Reference   { return Reference{Kind: KindPrice, ID: id} }
func Product(id string) Reference { return Reference{Kind: KindProduct, ID: id} }

// Parse classifies a raw identifier by its Stripe namespace prefix.
func Parse(raw string) (Reference, error) {
	id := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(id, pricePrefix) && len(id) > len(pricePrefix):
		return Price(id), nil
	case strings.HasPrefix(id, productPrefix) && len(id) > len(productPrefix):
		return Product(id), nil
	default:
		return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}
}

func (r Reference) IsPrice() bool   { return r.Kind == KindPrice }
func (r Reference) IsProduct() bool { return r.Kind == KindProduct }

func (r Reference) String() string { return r.ID }
