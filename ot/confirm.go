package ot

// Confirmation is a precondition for destructive operations, such as
// resetting a word dictionary or discarding all rows of a batch. The caller
// obtains it from the user before calling the operation.
type Confirmation bool

const (
	Confirmed   Confirmation = true
	Unconfirmed Confirmation = false
)

// Require returns an error of kind ErrInvalidArgument unless c is Confirmed.
func (c Confirmation) Require(operation string) error {
	if c != Confirmed {
		return Errorf(ErrInvalidArgument, "%s requires confirmation", operation)
	}
	return nil
}
