package graphics

import (
	"github.com/spaghettifunk/xnagfx/engine/containers"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

const disposalQueueSize = 64

// disposalQueues hold native objects released by resources until the owning
// goroutine reaches a swap. Enqueueing is safe from any goroutine.
type disposalQueues struct {
	textures      *containers.RingQueue[metadata.Texture]
	renderbuffers *containers.RingQueue[metadata.Renderbuffer]
	vertexBuffers *containers.RingQueue[metadata.Buffer]
	indexBuffers  *containers.RingQueue[metadata.Buffer]
	effects       *containers.RingQueue[metadata.Effect]
	queries       *containers.RingQueue[metadata.Query]
}

func newDisposalQueues() disposalQueues {
	return disposalQueues{
		textures:      containers.NewRingQueue[metadata.Texture](disposalQueueSize),
		renderbuffers: containers.NewRingQueue[metadata.Renderbuffer](disposalQueueSize),
		vertexBuffers: containers.NewRingQueue[metadata.Buffer](disposalQueueSize),
		indexBuffers:  containers.NewRingQueue[metadata.Buffer](disposalQueueSize),
		effects:       containers.NewRingQueue[metadata.Effect](disposalQueueSize),
		queries:       containers.NewRingQueue[metadata.Query](disposalQueueSize),
	}
}

// PendingDisposals reports how many native objects wait for destruction.
func (d *GraphicsDevice) PendingDisposals() int {
	q := &d.disposal
	return q.textures.Len() + q.renderbuffers.Len() + q.vertexBuffers.Len() +
		q.indexBuffers.Len() + q.effects.Len() + q.queries.Len()
}

// flushDisposals hands every queued native object to the backend. Textures
// still bound to a sampler slot are unbound first.
func (d *GraphicsDevice) flushDisposals() {
	q := &d.disposal
	q.textures.Drain(func(t metadata.Texture) {
		d.Textures.removeNative(t)
		d.VertexTextures.removeNative(t)
		d.backend.AddDisposeTexture(t)
	})
	q.renderbuffers.Drain(d.backend.AddDisposeRenderbuffer)
	q.vertexBuffers.Drain(d.backend.AddDisposeVertexBuffer)
	q.indexBuffers.Drain(d.backend.AddDisposeIndexBuffer)
	q.effects.Drain(d.backend.AddDisposeEffect)
	q.queries.Drain(d.backend.AddDisposeQuery)
}
