package atomicbox

import (
	"errors"
)

// ErrClosed is returned by Box.Close if the box was already closed, and is
// wrapped by the panic value of any operation on a closed box.
var ErrClosed = errors.New(`atomicbox: box closed`)
