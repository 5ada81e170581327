package dbus

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	args   []any
}

// fakeObject answers method calls from a table of canned responses.
type fakeObject struct {
	dbus.BusObject
	calls     []recordedCall
	responses map[string][]*dbus.Call
}

func (f *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	queue := f.responses[method]
	if len(queue) == 0 {
		return &dbus.Call{Err: errors.New("org.freedesktop.DBus.Error.UnknownMethod")}
	}
	c := queue[0]
	if len(queue) > 1 {
		f.responses[method] = queue[1:]
	}
	return c
}

func reply(values ...any) *dbus.Call {
	return &dbus.Call{Body: values}
}

func TestNotifier_ReplacesPrevious(t *testing.T) {
	obj := &fakeObject{responses: map[string][]*dbus.Call{
		NotificationsInterface + ".Notify": {reply(uint32(7)), reply(uint32(8))},
	}}
	nt := NewNotifierWithObject(obj, nil)

	id, err := nt.Notify(context.Background(), NewNotification("docshell", "Menu opened", ""))
	require.NoError(t, err)
	assert.Equal(t, uint32(7), id)

	id, err = nt.Notify(context.Background(), NewNotification("docshell", "Menu closed", ""))
	require.NoError(t, err)
	assert.Equal(t, uint32(8), id)

	require.Len(t, obj.calls, 2)
	assert.Equal(t, uint32(0), obj.calls[0].args[1])
	assert.Equal(t, uint32(7), obj.calls[1].args[1])
	assert.Equal(t, "Menu closed", obj.calls[1].args[3])
}

func TestNotifier_Error(t *testing.T) {
	obj := &fakeObject{responses: map[string][]*dbus.Call{}}
	nt := NewNotifierWithObject(obj, nil)

	_, err := nt.Notify(context.Background(), NewNotification("docshell", "x", ""))
	assert.Error(t, err)

	// Nothing was sent, so there is nothing to close.
	assert.NoError(t, nt.CloseLast(context.Background()))
	assert.Len(t, obj.calls, 1)
}

func TestNotifier_CloseLast(t *testing.T) {
	obj := &fakeObject{responses: map[string][]*dbus.Call{
		NotificationsInterface + ".Notify":            {reply(uint32(3))},
		NotificationsInterface + ".CloseNotification": {reply()},
	}}
	nt := NewNotifierWithObject(obj, nil)

	_, err := nt.Notify(context.Background(), NewNotification("docshell", "x", ""))
	require.NoError(t, err)
	require.NoError(t, nt.CloseLast(context.Background()))

	require.Len(t, obj.calls, 2)
	assert.Equal(t, []any{uint32(3)}, obj.calls[1].args)
}

func TestReadColorScheme(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string][]*dbus.Call
		want      ColorScheme
		wantErr   bool
	}{
		{
			name: "read one",
			responses: map[string][]*dbus.Call{
				PortalSettingsInterface + ".ReadOne": {reply(dbus.MakeVariant(uint32(1)))},
			},
			want: ColorSchemePreferDark,
		},
		{
			name: "legacy nested read",
			responses: map[string][]*dbus.Call{
				PortalSettingsInterface + ".Read": {reply(dbus.MakeVariant(dbus.MakeVariant(uint32(2))))},
			},
			want: ColorSchemePreferLight,
		},
		{
			name: "out of range",
			responses: map[string][]*dbus.Call{
				PortalSettingsInterface + ".ReadOne": {reply(dbus.MakeVariant(uint32(9)))},
			},
			want: ColorSchemeNoPreference,
		},
		{
			name: "wrong type",
			responses: map[string][]*dbus.Call{
				PortalSettingsInterface + ".ReadOne": {reply(dbus.MakeVariant("dark"))},
			},
			wantErr: true,
		},
		{
			name:      "no portal",
			responses: map[string][]*dbus.Call{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadColorScheme(context.Background(), &fakeObject{responses: tt.responses})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorScheme_String(t *testing.T) {
	assert.Equal(t, "prefer-dark", ColorSchemePreferDark.String())
	assert.Equal(t, "prefer-light", ColorSchemePreferLight.String())
	assert.Equal(t, "no-preference", ColorSchemeNoPreference.String())
}
