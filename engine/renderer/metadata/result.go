package metadata

import "fmt"

/** @brief Backend-neutral result of a device operation. */
type Result int32

const (
	ResultSuccess Result = iota
	ResultNotReady
	ResultTimeout
	ResultSuboptimal
	ResultErrorOutOfDate
	ResultErrorSurfaceLost
	ResultErrorDeviceLost
	ResultErrorOutOfHostMemory
	ResultErrorOutOfDeviceMemory
	ResultErrorInitializationFailed
	ResultErrorFormatNotSupported
	ResultErrorUnknown
)

var resultNames = map[Result]string{
	ResultSuccess:                   "success",
	ResultNotReady:                  "not ready",
	ResultTimeout:                   "timeout",
	ResultSuboptimal:                "suboptimal",
	ResultErrorOutOfDate:            "out of date",
	ResultErrorSurfaceLost:          "surface lost",
	ResultErrorDeviceLost:           "device lost",
	ResultErrorOutOfHostMemory:      "out of host memory",
	ResultErrorOutOfDeviceMemory:    "out of device memory",
	ResultErrorInitializationFailed: "initialization failed",
	ResultErrorFormatNotSupported:   "format not supported",
	ResultErrorUnknown:              "unknown error",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int32(r))
}

// IsSuccess is true for Success and Suboptimal: the operation went through.
func (r Result) IsSuccess() bool {
	return r == ResultSuccess || r == ResultSuboptimal
}

// NeedsRebuild reports whether the swapchain no longer matches the surface.
func (r Result) NeedsRebuild() bool {
	return r == ResultErrorOutOfDate || r == ResultSuboptimal
}

// IsFatal reports whether the result cannot be recovered by a swapchain rebuild.
func (r Result) IsFatal() bool {
	return !r.IsSuccess() && r != ResultErrorOutOfDate
}

// Err returns nil for successful results and a *ResultError otherwise.
func (r Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r}
}

type ResultError struct {
	Result Result
}

func (e *ResultError) Error() string {
	return "device result: " + e.Result.String()
}
