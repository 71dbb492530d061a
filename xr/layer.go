package xr

// CompositionLayer is any layer submitted at frame end.
type CompositionLayer interface {
	LayerType() StructureType
}

// CompositionLayerFlags modify layer blending.
type CompositionLayerFlags uint64

const (
	CompositionLayerCorrectChromaticAberration CompositionLayerFlags = 1 << 0
	CompositionLayerBlendTextureSourceAlpha    CompositionLayerFlags = 1 << 1
	CompositionLayerUnpremultipliedAlpha       CompositionLayerFlags = 1 << 2
)

// EyeVisibility restricts a quad layer to one eye.
type EyeVisibility int32

const (
	EyeVisibilityBoth  EyeVisibility = 0
	EyeVisibilityLeft  EyeVisibility = 1
	EyeVisibilityRight EyeVisibility = 2
)

// SwapchainSubImage is a region of one swapchain array layer.
type SwapchainSubImage struct {
	Swapchain       Swapchain
	ImageRect       Rect2Di
	ImageArrayIndex uint32
}

// CompositionLayerProjectionView is one eye of a projection layer.
type CompositionLayerProjectionView struct {
	Pose     Posef
	Fov      Fovf
	SubImage SwapchainSubImage
}

// CompositionLayerProjection is a stereo projection layer.
type CompositionLayerProjection struct {
	LayerFlags CompositionLayerFlags
	Space      Space
	Views      []CompositionLayerProjectionView
}

// LayerType implements CompositionLayer.
func (*CompositionLayerProjection) LayerType() StructureType { return TypeCompositionLayerProjection }

// CompositionLayerQuad is a flat quad placed in a space.
type CompositionLayerQuad struct {
	LayerFlags    CompositionLayerFlags
	Space         Space
	EyeVisibility EyeVisibility
	SubImage      SwapchainSubImage
	Pose          Posef
	Size          Extent2Df
}

// LayerType implements CompositionLayer.
func (*CompositionLayerQuad) LayerType() StructureType { return TypeCompositionLayerQuad }

// CompositionLayerBaseHeader carries only a type tag. It stands in for layer
// kinds that have no dedicated Go type, such as extension layers.
type CompositionLayerBaseHeader struct {
	Type       StructureType
	LayerFlags CompositionLayerFlags
	Space      Space
}

// LayerType implements CompositionLayer.
func (h *CompositionLayerBaseHeader) LayerType() StructureType { return h.Type }

// FrameEndInfo is submitted to end a frame.
type FrameEndInfo struct {
	DisplayTime          Time
	EnvironmentBlendMode EnvironmentBlendMode
	Layers               []CompositionLayer
}

// FrameState is returned by a frame wait.
type FrameState struct {
	PredictedDisplayTime   Time
	PredictedDisplayPeriod Duration
	ShouldRender           bool
}
