// Package udisks implements the block-device RPC backend over the
// UDisks2 D-Bus service, grounded directly on the original
// UDisks2Backend/UDisks2Drive/UDisks2Volume
// (original_source/src/backend/udisks2.rs), translated from zbus's
// async Proxy/get_property/call_method calls onto
// github.com/godbus/dbus/v5's synchronous BusObject API.
package udisks

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/driftfs/vfs"
)

const (
	service      = "org.freedesktop.UDisks2"
	managerPath  = "/org/freedesktop/UDisks2/Manager"
	managerIface = "org.freedesktop.UDisks2.Manager"
	driveIface   = "org.freedesktop.UDisks2.Drive"
	blockIface   = "org.freedesktop.UDisks2.Block"
	fsIface      = "org.freedesktop.UDisks2.Filesystem"
)

// managedObjects is the GetManagedObjects reply shape:
// a{oa{sa{sv}}} — object path -> interface name -> property name -> value.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Backend talks to the system D-Bus UDisks2 service.
type Backend struct {
	conn *dbus.Conn
}

// Connect opens (and authenticates) a connection to the system bus.
// Grounded on UDisks2Backend::connect's lazy, once-only connection
// setup.
func Connect() (*Backend, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, vfs.Wrap(vfs.KindFailed, err, "connect to system D-Bus")
	}
	return &Backend{conn: conn}, nil
}

// Close releases the bus connection.
func (b *Backend) Close() error { return b.conn.Close() }

// IsAvailable reports whether the UDisks2 service answers on the bus.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	obj := b.conn.Object(service, dbus.ObjectPath(managerPath))
	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.Peer.Ping", 0)
	return call.Err == nil
}

func (b *Backend) getManagedObjects(ctx context.Context) (managedObjects, error) {
	obj := b.conn.Object(service, dbus.ObjectPath(managerPath))
	var objects managedObjects
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&objects)
	if err != nil {
		return nil, vfs.Wrap(vfs.KindFailed, err, "GetManagedObjects")
	}
	return objects, nil
}

func propString(props map[string]dbus.Variant, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func propBool(props map[string]dbus.Variant, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	bv, _ := v.Value().(bool)
	return bv
}

// Drive mirrors the original UDisks2Drive, exposing the subset of
// org.freedesktop.UDisks2.Drive properties spec §6 needs.
type Drive struct {
	backend          *Backend
	Path             dbus.ObjectPath
	Name             string
	Vendor           string
	Model            string
	Removable        bool
	MediaRemovable   bool
	HasMedia         bool
	CanEject         bool
	UnixDevice       string
}

// Volume mirrors the original UDisks2Volume.
type Volume struct {
	backend    *Backend
	Path       dbus.ObjectPath
	Name       string
	UUID       string
	Label      string
	MountPoint string
	UnixDevice string
	CanMount   bool
}

// Drives lists every object exposing the Drive interface, grounded on
// get_drives's "/drives/" path filter + interface check.
func (b *Backend) Drives(ctx context.Context) ([]*Drive, error) {
	objects, err := b.getManagedObjects(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Drive
	for path, ifaces := range objects {
		if !strings.Contains(string(path), "/drives/") {
			continue
		}
		props, ok := ifaces[driveIface]
		if !ok {
			continue
		}
		vendor := propString(props, "Vendor")
		model := propString(props, "Model")
		name := model
		if vendor != "" && model != "" {
			name = vendor + " " + model
		}
		if name == "" {
			name = lastSegment(string(path))
		}
		out = append(out, &Drive{
			backend:        b,
			Path:           path,
			Name:           name,
			Vendor:         vendor,
			Model:          model,
			Removable:      propBool(props, "MediaRemovable"),
			MediaRemovable: propBool(props, "MediaRemovable"),
			HasMedia:       propBool(props, "MediaAvailable"),
			CanEject:       propBool(props, "Ejectable"),
			UnixDevice:     propString(props, "Device"),
		})
	}
	return out, nil
}

// Volumes lists every object exposing the Filesystem interface,
// grounded on get_volumes's "/block_devices/" path filter.
func (b *Backend) Volumes(ctx context.Context) ([]*Volume, error) {
	objects, err := b.getManagedObjects(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Volume
	for path, ifaces := range objects {
		if !strings.Contains(string(path), "/block_devices/") {
			continue
		}
		fsProps, ok := ifaces[fsIface]
		if !ok {
			continue
		}
		blockProps := ifaces[blockIface]

		mountPoint := firstMountPoint(fsProps)
		label := propString(blockProps, "IdLabel")
		uuid := propString(blockProps, "IdUuid")
		name := label
		if name == "" {
			name = uuid
		}
		if name == "" {
			name = lastSegment(string(path))
		}
		out = append(out, &Volume{
			backend:    b,
			Path:       path,
			Name:       name,
			UUID:       uuid,
			Label:      label,
			MountPoint: mountPoint,
			UnixDevice: propString(blockProps, "Device"),
			CanMount:   mountPoint == "",
		})
	}
	return out, nil
}

func firstMountPoint(props map[string]dbus.Variant) string {
	v, ok := props["MountPoints"]
	if !ok {
		return ""
	}
	points, ok := v.Value().([][]byte)
	if !ok || len(points) == 0 {
		return ""
	}
	return nulTerminatedString(points[0])
}

func nulTerminatedString(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

func lastSegment(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// Eject calls the Drive.Eject method, grounded on UDisks2Drive::eject.
func (d *Drive) Eject(ctx context.Context) error {
	if !d.CanEject {
		return vfs.NewError(vfs.KindNotSupported, "drive is not ejectable")
	}
	obj := d.backend.conn.Object(service, d.Path)
	call := obj.CallWithContext(ctx, driveIface+".Eject", 0, map[string]dbus.Variant{})
	if call.Err != nil {
		return vfs.Wrap(vfs.KindFailed, call.Err, fmt.Sprintf("eject %s", d.Path))
	}
	return nil
}

// Mount calls Filesystem.Mount, grounded on UDisks2Volume::mount.
func (v *Volume) Mount(ctx context.Context) error {
	if !v.CanMount {
		return vfs.NewError(vfs.KindNotSupported, "volume cannot be mounted")
	}
	obj := v.backend.conn.Object(service, v.Path)
	opts := map[string]dbus.Variant{"auth.no_user_interaction": dbus.MakeVariant(true)}
	call := obj.CallWithContext(ctx, fsIface+".Mount", 0, opts)
	if call.Err != nil {
		return vfs.Wrap(vfs.KindFailed, call.Err, fmt.Sprintf("mount %s", v.Path))
	}
	return nil
}

// Unmount calls Filesystem.Unmount, grounded on UDisks2Volume::eject's
// unmount-before-eject step.
func (v *Volume) Unmount(ctx context.Context, force bool) error {
	obj := v.backend.conn.Object(service, v.Path)
	opts := map[string]dbus.Variant{"force": dbus.MakeVariant(force)}
	call := obj.CallWithContext(ctx, fsIface+".Unmount", 0, opts)
	if call.Err != nil {
		return vfs.Wrap(vfs.KindFailed, call.Err, fmt.Sprintf("unmount %s", v.Path))
	}
	v.MountPoint = ""
	return nil
}
