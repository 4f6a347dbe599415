//go:build !linux

package envhint

import "fmt"

type baseline struct{}

func captureBaseline() baseline { return baseline{} }

func (*baseline) pin(int) (func(), error) {
	return func() {}, fmt.Errorf("%w: cpu affinity is not supported on this platform", ErrUnavailable)
}

func (*baseline) prioritize(int) (func(), error) {
	return func() {}, fmt.Errorf("%w: priority is not supported on this platform", ErrUnavailable)
}
