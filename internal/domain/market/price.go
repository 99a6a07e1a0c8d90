package market

// Price is the price state of a single ticker. It is a closed set of variants:
// Priced, PricedWithReduced, ReducedOnly and Unpriced. Consumers switch over the concrete type.
type Price interface {
	isPrice()
}

// Priced carries a regular price only; the reduced price falls back to it
type Priced struct {
	Regular float64
}

// PricedWithReduced carries both the regular and the cooperative-exchange price
type PricedWithReduced struct {
	Regular float64
	Reduced float64
}

// ReducedOnly carries a configured reduced price for a ticker whose regular
// price could not be derived (no traded volume)
type ReducedOnly struct {
	Reduced float64
}

// Unpriced means neither a regular nor a reduced price is known
type Unpriced struct{}

func (Priced) isPrice()            {}
func (PricedWithReduced) isPrice() {}
func (ReducedOnly) isPrice()       {}
func (Unpriced) isPrice()          {}

// RegularPrice returns the regular price, or false when the ticker is unpriced
func RegularPrice(p Price) (float64, bool) {
	switch v := p.(type) {
	case Priced:
		return v.Regular, true
	case PricedWithReduced:
		return v.Regular, true
	case ReducedOnly, Unpriced, nil:
		return 0, false
	default:
		panic("market: unhandled price variant")
	}
}

// ReducedPrice returns the reduced price if the variant carries one
func ReducedPrice(p Price) (float64, bool) {
	switch v := p.(type) {
	case PricedWithReduced:
		return v.Reduced, true
	case ReducedOnly:
		return v.Reduced, true
	case Priced, Unpriced, nil:
		return 0, false
	default:
		panic("market: unhandled price variant")
	}
}

// EffectiveReducedPrice is the price used for the reduced total:
// the reduced price when present, the regular price otherwise
func EffectiveReducedPrice(p Price) (float64, bool) {
	switch v := p.(type) {
	case PricedWithReduced:
		return v.Reduced, true
	case ReducedOnly:
		return v.Reduced, true
	case Priced:
		return v.Regular, true
	case Unpriced, nil:
		return 0, false
	default:
		panic("market: unhandled price variant")
	}
}
