package graphics

import (
	"fmt"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// OcclusionQuery counts the pixels that pass the depth and stencil tests
// between Begin and End.
type OcclusionQuery struct {
	GraphicsResource

	native  metadata.Query
	inBegin bool
	ended   bool
}

func NewOcclusionQuery(device *GraphicsDevice) (*OcclusionQuery, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}
	q := &OcclusionQuery{}
	device.run(func() {
		q.native = device.backend.CreateQuery()
	})
	q.track(device, q, func() {
		device.disposal.queries.Enqueue(q.native)
	})
	return q, nil
}

func (q *OcclusionQuery) Begin() error {
	if q.IsDisposed() {
		return ErrResourceDisposed
	}
	if q.inBegin {
		return fmt.Errorf("%w: query already begun", ErrInvalidArgument)
	}
	defer q.device.lock()()
	q.device.backend.QueryBegin(q.native)
	q.inBegin = true
	q.ended = false
	return nil
}

func (q *OcclusionQuery) End() error {
	if q.IsDisposed() {
		return ErrResourceDisposed
	}
	if !q.inBegin {
		return fmt.Errorf("%w: query not begun", ErrInvalidArgument)
	}
	defer q.device.lock()()
	q.device.backend.QueryEnd(q.native)
	q.inBegin = false
	q.ended = true
	return nil
}

func (q *OcclusionQuery) IsComplete() bool {
	if !q.ended || q.IsDisposed() {
		return false
	}
	defer q.device.lock()()
	return q.device.backend.QueryComplete(q.native)
}

// PixelCount is valid once IsComplete reports true.
func (q *OcclusionQuery) PixelCount() (int32, error) {
	if q.IsDisposed() {
		return 0, ErrResourceDisposed
	}
	if !q.ended {
		return 0, fmt.Errorf("%w: query not ended", ErrInvalidArgument)
	}
	defer q.device.lock()()
	return q.device.backend.QueryPixelCount(q.native), nil
}
