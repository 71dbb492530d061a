package xrsim

import (
	"github.com/davidrios/openxr-device-simulator/event"
	"github.com/davidrios/openxr-device-simulator/input"
	"github.com/davidrios/openxr-device-simulator/internal/paths"
	"github.com/davidrios/openxr-device-simulator/internal/registry"
	"github.com/davidrios/openxr-device-simulator/internal/twocall"
	"github.com/davidrios/openxr-device-simulator/internal/xrlog"
	"github.com/davidrios/openxr-device-simulator/xr"
)

// Extensions the runtime advertises.
const (
	ExtensionVulkanEnable2         = "XR_KHR_vulkan_enable2"
	ExtensionCompositionLayerDepth = "XR_KHR_composition_layer_depth"
)

var extensions = []string{ExtensionVulkanEnable2, ExtensionCompositionLayerDepth}

// InstanceCreateInfo describes the application creating an instance.
type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         xr.Version
	EnabledExtensions  []string
}

// InstanceProperties identifies the runtime.
type InstanceProperties struct {
	RuntimeName    string
	RuntimeVersion xr.Version
}

type instance struct {
	id    xr.Instance
	info  InstanceCreateInfo
	paths *paths.Table

	session    xr.Session
	actionSets map[xr.ActionSet]struct{}
	setNames   *input.Names
	bindings   *input.Bindings
}

func (info *InstanceCreateInfo) validate() error {
	if info.ApplicationName == "" {
		return xr.Errorf(xr.ErrorNameInvalid, "", "empty application name")
	}
	if info.APIVersion.Major() != xr.CurrentAPIVersion.Major() {
		return xr.Errorf(xr.ErrorAPIVersionUnsupported, "", "api version %s", info.APIVersion)
	}
	for _, ext := range info.EnabledExtensions {
		if !hasExtension(ext) {
			return xr.Errorf(xr.ErrorExtensionNotPresent, "", "extension %q", ext)
		}
	}
	return nil
}

func hasExtension(name string) bool {
	for _, e := range extensions {
		if e == name {
			return true
		}
	}
	return false
}

// EnumerateExtensions lists the supported extension names.
func (r *Runtime) EnumerateExtensions(capacity uint32, out []string) (uint32, error) {
	return twocall.Fill(extensions, capacity, out)
}

// CreateInstance validates info and creates an instance with its own path
// table and event queue.
func (r *Runtime) CreateInstance(info InstanceCreateInfo) (xr.Instance, error) {
	if r.closed.Load() {
		return 0, xr.Errorf(xr.ErrorRuntimeUnavailable, "", "runtime closed")
	}
	if err := info.validate(); err != nil {
		return 0, err
	}
	h, err := r.instances.Insert(func(h registry.Handle) (*instance, error) {
		id := xr.Instance(h)
		r.events.Create(id)
		return &instance{
			id:         id,
			info:       info,
			paths:      paths.New(),
			actionSets: make(map[xr.ActionSet]struct{}),
			setNames:   input.NewNames(),
			bindings:   input.NewBindings(),
		}, nil
	})
	if err != nil {
		return 0, err
	}
	xrlog.Logger().Info("xrsim: instance created",
		"instance", uint64(h), "application", info.ApplicationName, "api_version", info.APIVersion.String())
	return xr.Instance(h), nil
}

// DestroyInstance destroys inst together with its session, action sets and
// actions. Its event queue and any undelivered events go with it.
func (r *Runtime) DestroyInstance(inst xr.Instance) error {
	obj, ok := r.instances.Destroy(registry.Handle(inst))
	if !ok {
		return xr.Errorf(xr.ErrorInstanceLost, "", "instance %d", inst)
	}
	if obj.session != 0 {
		if e, ok := r.sessions.Destroy(registry.Handle(obj.session)); ok {
			r.teardownSession(e)
		}
	}
	for set := range obj.actionSets {
		if s, ok := r.actionSets.Destroy(registry.Handle(set)); ok {
			for _, a := range s.Actions() {
				r.actions.Destroy(registry.Handle(a))
			}
		}
	}
	r.events.Remove(inst)
	xrlog.Logger().Info("xrsim: instance destroyed", "instance", uint64(inst))
	return nil
}

// InstanceProperties reports the runtime name and version.
func (r *Runtime) InstanceProperties(inst xr.Instance) (InstanceProperties, error) {
	return withInstance(r, inst, func(*instance) (InstanceProperties, error) {
		return InstanceProperties{
			RuntimeName:    RuntimeName,
			RuntimeVersion: xr.MakeVersion(RuntimeVersionMajor, RuntimeVersionMinor, RuntimeVersionPatch),
		}, nil
	})
}

// pathsOf returns the path table of inst. The table locks itself, so the
// caller may use it after the instance lock is released.
func (r *Runtime) pathsOf(inst xr.Instance) (*paths.Table, error) {
	return withInstance(r, inst, func(i *instance) (*paths.Table, error) {
		return i.paths, nil
	})
}

// StringToPath interns s in the path table of inst.
func (r *Runtime) StringToPath(inst xr.Instance, s string) (xr.Path, error) {
	t, err := r.pathsOf(inst)
	if err != nil {
		return xr.NullPath, err
	}
	return t.Intern(s)
}

// PathToString writes the string behind p into buf using the two-call
// idiom. The count includes the terminating NUL.
func (r *Runtime) PathToString(inst xr.Instance, p xr.Path, capacity uint32, buf []byte) (uint32, error) {
	t, err := r.pathsOf(inst)
	if err != nil {
		return 0, err
	}
	s, err := t.String(p)
	if err != nil {
		return 0, err
	}
	return twocall.FillString(s, capacity, buf)
}

// PollEvent delivers the oldest pending event of inst into buf. It returns
// EventUnavailable when there is none.
func (r *Runtime) PollEvent(inst xr.Instance, buf *event.Buffer) (xr.Result, error) {
	return r.events.Poll(inst, buf)
}
