package cart

// ActionType names an action for logging and dispatch tables.
type ActionType string

const (
	TypeAddToCartRequested ActionType = "cart/addProductToCartRequest"
	TypeAddToCartSucceeded ActionType = "cart/addProductToCartSuccess"
	TypeAddToCartFailed    ActionType = "cart/addProductToCartFailure"
)

// Action describes an intended or realized cart change. Actions are values;
// the only way to change a cart is to reduce one.
type Action interface {
	Type() ActionType
}

// AddToCartRequested asks for product to be added once stock is confirmed.
type AddToCartRequested struct {
	Product Product
}

// Type implements Action.
func (AddToCartRequested) Type() ActionType { return TypeAddToCartRequested }

// AddToCartSucceeded records a confirmed addition of one unit of Product.
type AddToCartSucceeded struct {
	Product Product
}

// Type implements Action.
func (AddToCartSucceeded) Type() ActionType { return TypeAddToCartSucceeded }

// AddToCartFailed records that the latest stock check for ProductID failed.
type AddToCartFailed struct {
	ProductID ProductID
}

// Type implements Action.
func (AddToCartFailed) Type() ActionType { return TypeAddToCartFailed }

// ProductOf returns the product id an action refers to.
func ProductOf(a Action) (ProductID, bool) {
	switch act := a.(type) {
	case AddToCartRequested:
		return act.Product.ID, true
	case AddToCartSucceeded:
		return act.Product.ID, true
	case AddToCartFailed:
		return act.ProductID, true
	default:
		return 0, false
	}
}
