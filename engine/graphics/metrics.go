package graphics

/** @brief Counters of the native work a device has issued. */
type DeviceMetrics struct {
	Draws                uint64
	BlendStateChanges    uint64
	DepthStencilChanges  uint64
	RasterizerApplies    uint64
	SamplerVerifies      uint64
	VertexBindingApplies uint64
	RenderTargetChanges  uint64
	Resolves             uint64
	Clears               uint64
	Presents             uint64
}

// Metrics returns a snapshot of the device counters.
func (d *GraphicsDevice) Metrics() DeviceMetrics {
	return d.metrics
}

func (d *GraphicsDevice) ResetMetrics() {
	d.metrics = DeviceMetrics{}
}
