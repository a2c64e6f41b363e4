package device_error

import (
	"os"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

type holderImpl struct {
	mu *sync.Mutex

	err     error
	armed   bool
	onFatal func(error)
}

// Holder captures errors the GPU device reports asynchronously.
// During setup it keeps the first reported error so startup code can Poll after creating
// shaders and pipelines. Once armed, every further report is treated as fatal.
type Holder interface {
	// Report records a device error. Nil errors are ignored.
	// Before Arm only the first error is kept; later ones are logged and dropped.
	// After Arm the fatal handler runs for every error.
	//
	// Parameters:
	//   - err: the error reported by the device
	//
	// Returns:
	//   - bool: true if the error was stored or handed to the fatal handler
	Report(err error) bool

	// Poll returns the stored setup error, or nil. It never blocks and does not clear the slot.
	//
	// Returns:
	//   - error: the first error reported before Arm
	Poll() error

	// Arm switches the holder into post-setup mode.
	//
	// Parameters:
	//   - onFatal: called for each later error; nil installs the default handler that logs
	//     the error and exits the process with status 1
	Arm(onFatal func(error))
}

var _ Holder = &holderImpl{}

// NewHolder creates an empty, unarmed Holder.
//
// Returns:
//   - Holder: the new holder
func NewHolder() Holder {
	return &holderImpl{mu: &sync.Mutex{}}
}

func (h *holderImpl) Report(err error) bool {
	if err == nil {
		return false
	}
	h.mu.Lock()
	if h.armed {
		onFatal := h.onFatal
		h.mu.Unlock()
		onFatal(err)
		return true
	}
	defer h.mu.Unlock()
	if h.err != nil {
		common.Logger().Warn("device error dropped, an earlier error is pending", "error", err)
		return false
	}
	h.err = err
	return true
}

func (h *holderImpl) Poll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *holderImpl) Arm(onFatal func(error)) {
	if onFatal == nil {
		onFatal = exitOnError
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.armed = true
	h.onFatal = onFatal
}

func exitOnError(err error) {
	common.Logger().Error("fatal device error", "error", err)
	os.Exit(1)
}
