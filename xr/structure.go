package xr

import "fmt"

// StructureType tags a protocol structure.
type StructureType int32

const (
	TypeUnknown                              StructureType = 0
	TypeEventDataBuffer                      StructureType = 16
	TypeEventDataInstanceLossPending         StructureType = 17
	TypeEventDataSessionStateChanged         StructureType = 18
	TypeCompositionLayerProjection           StructureType = 35
	TypeCompositionLayerQuad                 StructureType = 36
	TypeEventDataReferenceSpaceChangePending StructureType = 40
	TypeEventDataEventsLost                  StructureType = 49
	TypeEventDataInteractionProfileChanged   StructureType = 52
	TypeCompositionLayerCubeKHR              StructureType = 1000006000
	TypeCompositionLayerCylinderKHR          StructureType = 1000017000
	TypeCompositionLayerEquirectKHR          StructureType = 1000018000
)

var structureNames = map[StructureType]string{
	TypeUnknown:                              "XR_TYPE_UNKNOWN",
	TypeEventDataBuffer:                      "XR_TYPE_EVENT_DATA_BUFFER",
	TypeEventDataInstanceLossPending:         "XR_TYPE_EVENT_DATA_INSTANCE_LOSS_PENDING",
	TypeEventDataSessionStateChanged:         "XR_TYPE_EVENT_DATA_SESSION_STATE_CHANGED",
	TypeCompositionLayerProjection:           "XR_TYPE_COMPOSITION_LAYER_PROJECTION",
	TypeCompositionLayerQuad:                 "XR_TYPE_COMPOSITION_LAYER_QUAD",
	TypeEventDataReferenceSpaceChangePending: "XR_TYPE_EVENT_DATA_REFERENCE_SPACE_CHANGE_PENDING",
	TypeEventDataEventsLost:                  "XR_TYPE_EVENT_DATA_EVENTS_LOST",
	TypeEventDataInteractionProfileChanged:   "XR_TYPE_EVENT_DATA_INTERACTION_PROFILE_CHANGED",
	TypeCompositionLayerCubeKHR:              "XR_TYPE_COMPOSITION_LAYER_CUBE_KHR",
	TypeCompositionLayerCylinderKHR:          "XR_TYPE_COMPOSITION_LAYER_CYLINDER_KHR",
	TypeCompositionLayerEquirectKHR:          "XR_TYPE_COMPOSITION_LAYER_EQUIRECT_KHR",
}

func (t StructureType) String() string {
	if name, ok := structureNames[t]; ok {
		return name
	}
	return fmt.Sprintf("XR_UNKNOWN_STRUCTURE_TYPE_%d", int32(t))
}
