package forms

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/cues"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/ports"
	"github.com/bbernstein/lacylights-netron/internal/services/feedback"
	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

type post struct {
	endpoint string
	form     transport.Form
}

type fakePoster struct {
	mu    sync.Mutex
	posts []post
	reply string
	err   error
}

func (p *fakePoster) PostForm(_ context.Context, endpoint string, form transport.Form) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post{endpoint: endpoint, form: form})
	if p.err != nil {
		return nil, p.err
	}
	if p.reply == "" {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(p.reply), nil
}

func (p *fakePoster) last(t *testing.T) post {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.posts, "nothing was posted")
	return p.posts[len(p.posts)-1]
}

func (p *fakePoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

type notes struct {
	mu    sync.Mutex
	shown []feedback.Notification
}

func (n *notes) Publish(_ pubsub.Topic, _ string, msg interface{}) {
	note := msg.(feedback.Notification)
	if note.Dismissed {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, note)
}

func (n *notes) all() []feedback.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]feedback.Notification(nil), n.shown...)
}

// Three ports: 1 outputs Art-Net universe 1, 2 clones port 1, 3 receives
// sACN universe 5.
var documents = map[string]string{
	"Setting.json":      `{"DeviceType":"NETRON EN4","DeviceName":"Stage left","UniverseMode":0}`,
	"IP.json":           `{"addressmode":3,"ipaddress":"192.168.001.010","netmask":"255.255.255.000"}`,
	"index.json":        `{"FirmwareVer":"V1.2","BootVer":"B0.9","WebVer":"W2.0"}`,
	"DMXPorts.json":     `[{"ptMode":2,"ptProtocol":0,"ptUniverse":0,"ptClonePort":0,"ptRangeFrom":1,"ptRangeTo":512},{"ptMode":2,"ptClonePort":0,"ptRangeFrom":1,"ptRangeTo":512},{"ptMode":1,"ptProtocol":1,"ptUniverse":5,"ptClonePort":2,"ptRangeFrom":1,"ptRangeTo":512}]`,
	"Identify.json":     `{"IdentifyStatus":0}`,
	"Presets.json":      `[{"name":"Factory","universe":0},{"name":"Stage","universe":0}]`,
	"UserPresets.json":  `[{"name":"Show","owner":0},{"name":"Locked","owner":1}]`,
	"Cues.json":         `[{"name":"Intro","fadeTime":3,"holdTime":10,"linkCue":2},{"name":"Main","linkCue":0}]`,
	"CuesSetting.json":  `{"CuesResendEth":0}`,
	"CuesStatus.json":   `{"CurrentCue":0,"CueRunningName":""}`,
	"RemoteInputs.json": `[{"rmTriggerSource":0,"rmSourceUniverse":0,"rmSourceChannel":1,"rmAction":0,"rmActionValue":1}]`,
}

type env struct {
	svc    *Service
	state  *device.Aggregator
	poster *fakePoster
	notes  *notes
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	for name, doc := range documents {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644))
	}
	state := device.NewAggregator(transport.NewFixtures(dir, nil), device.DefaultNames(), nil, nil)
	_, err := state.Load(context.Background())
	require.NoError(t, err)

	n := &notes{}
	tracker := feedback.NewTracker(time.Hour, n, nil)
	t.Cleanup(tracker.Close)

	poster := &fakePoster{}
	return &env{
		svc:    NewService(state, poster, tracker, DefaultEndpoints(), nil),
		state:  state,
		poster: poster,
		notes:  n,
	}
}

func (e *env) current(t *testing.T) device.State {
	t.Helper()
	st, ok := e.state.State()
	require.True(t, ok)
	return st
}

func (e *env) onlyNote(t *testing.T, control string, kind feedback.Kind) feedback.Notification {
	t.Helper()
	shown := e.notes.all()
	require.Len(t, shown, 1, "exactly one notification per save")
	assert.Equal(t, control, shown[0].Control)
	assert.Equal(t, kind, shown[0].Kind)
	return shown[0]
}

func TestSavePort_InvalidRangeIsNotSent(t *testing.T) {
	e := newEnv(t)
	before := e.current(t)

	_, err := e.svc.SavePort(context.Background(), 0, map[string]codec.Display{
		"ptRangeFrom": codec.Number(500),
		"ptRangeTo":   codec.Number(100),
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ports.ErrRange)
	assert.Equal(t, "The From/To DMX is incorrect (From DMX > To DMX or To DMX < From DMX)", err.Error())
	assert.Zero(t, e.poster.count())
	assert.Equal(t, before.Ports, e.current(t).Ports)
	e.onlyNote(t, "port-0", feedback.KindDanger)
}

func TestSavePort_ModeChangeOrphansClone(t *testing.T) {
	e := newEnv(t)
	before := e.current(t)

	_, err := e.svc.SavePort(context.Background(), 0, map[string]codec.Display{
		"ptMode": codec.Text("Input"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrOrphansClones)
	assert.Equal(t, "Port 1 is cloned by Port: 2", err.Error())
	var pe *ports.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []int{1}, pe.Ports)
	assert.Zero(t, e.poster.count())
	assert.Equal(t, before.Ports, e.current(t).Ports)
	e.onlyNote(t, "port-0", feedback.KindDanger)
}

func TestSavePort_CloneIntoCycleRefused(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.SavePort(context.Background(), 2, map[string]codec.Display{
		"ptMode":      codec.Text("Output"),
		"ptClonePort": codec.Number(1),
	})

	assert.ErrorIs(t, err, ports.ErrCloneTarget)
	assert.Equal(t, "The port 2 is cloning the Port 1 (dependency loop)", err.Error())
	assert.Zero(t, e.poster.count())
}

func TestSavePort_Success(t *testing.T) {
	e := newEnv(t)

	res, err := e.svc.SavePort(context.Background(), 2, map[string]codec.Display{
		"ptUniverse": codec.Number(7),
	})
	require.NoError(t, err)

	sent := e.poster.last(t)
	assert.Equal(t, "save_dmx_port", sent.endpoint)
	assert.Equal(t, []string{"idx", "ptMode", "ptProtocol", "ptUniverse", "ptRangeFrom", "ptRangeTo", "ptOffsetAddr"}, sent.form.Keys())
	v, _ := sent.form.Get("ptUniverse")
	assert.Equal(t, "7", v, "sACN universes are not shifted")

	assert.Equal(t, 7, res.Port.Universe)
	assert.Equal(t, 7, e.current(t).Ports[2].Universe)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, ports.StatusSelf, res.Candidates[2][0].Status)

	note := e.onlyNote(t, "port-2", feedback.KindSuccess)
	assert.Equal(t, "Port 3 updated successfully!", note.Message)
}

func TestSavePort_ArtNetUniverseIsZeroBased(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.SavePort(context.Background(), 0, map[string]codec.Display{
		"ptUniverse": codec.Number(4),
	})
	require.NoError(t, err)

	sent := e.poster.last(t)
	assert.Equal(t, []string{
		"idx", "ptClonePort", "ptMode", "ptRDM", "ptProtocol", "ptUniverse",
		"ptMergeMode", "ptFramerate", "ptRangeFrom", "ptRangeTo", "ptOffsetAddr",
	}, sent.form.Keys())
	v, _ := sent.form.Get("ptUniverse")
	assert.Equal(t, "3", v)
	assert.Equal(t, 3, e.current(t).Ports[0].Universe)
}

func TestSavePort_SaveFailureLeavesStateUnchanged(t *testing.T) {
	e := newEnv(t)
	e.poster.err = errors.New("connection refused")
	before := e.current(t)

	_, err := e.svc.SavePort(context.Background(), 2, map[string]codec.Display{
		"ptUniverse": codec.Number(9),
	})

	var se *SaveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "save_dmx_port", se.Endpoint)
	assert.False(t, IsValidation(err))
	assert.Equal(t, 1, e.poster.count())
	assert.Equal(t, before.Ports, e.current(t).Ports)
	e.onlyNote(t, "port-2", feedback.KindDanger)
}

func TestSavePort_BusyControl(t *testing.T) {
	e := newEnv(t)
	values := map[string]codec.Display{"ptUniverse": codec.Number(8)}

	_, err := e.svc.SavePort(context.Background(), 2, values)
	require.NoError(t, err)

	_, err = e.svc.SavePort(context.Background(), 2, values)
	assert.ErrorIs(t, err, ErrControlBusy)
	assert.Equal(t, 1, e.poster.count())
	assert.Len(t, e.notes.all(), 1)

	_, err = e.svc.SavePort(context.Background(), 1, map[string]codec.Display{"ptClonePort": codec.Number(1)})
	assert.NoError(t, err, "other ports stay available")
}

func TestSavePort_UnknownFieldAndPort(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.SavePort(context.Background(), 0, map[string]codec.Display{"rmAction": codec.Number(1)})
	assert.True(t, IsValidation(err))

	assert.NotErrorIs(t, err, device.ErrUnknownEntity)

	_, err = e.svc.SavePort(context.Background(), 9, nil)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, device.ErrUnknownEntity)
	assert.Equal(t, "Port 10 does not exist", err.Error())
	assert.Zero(t, e.poster.count())
}

func TestSaveIP(t *testing.T) {
	t.Run("invalid address", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.SaveIP(context.Background(), IPInput{
			AddressMode: codec.Text("Custom IP"),
			IPAddress:   "300.1.1.1",
			Netmask:     "255.255.255.0",
		})
		assert.EqualError(t, err, "The IP address 300.1.1.1 is incorrect")
		assert.Zero(t, e.poster.count())
	})

	t.Run("invalid netmask", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.SaveIP(context.Background(), IPInput{
			AddressMode: codec.Text("Custom IP"),
			IPAddress:   "192.168.1.20",
			Netmask:     "255.255",
		})
		assert.EqualError(t, err, "The Net mask 255.255 is incorrect")
	})

	t.Run("custom address", func(t *testing.T) {
		e := newEnv(t)
		res, err := e.svc.SaveIP(context.Background(), IPInput{
			AddressMode: codec.Text("Custom IP"),
			IPAddress:   "192.168.1.20",
			Netmask:     "255.255.255.0",
		})
		require.NoError(t, err)

		sent := e.poster.last(t)
		assert.Equal(t, "save_info", sent.endpoint)
		ip, _ := sent.form.Get("ipaddress")
		mask, _ := sent.form.Get("netmask")
		assert.Equal(t, "192.168.001.020", ip)
		assert.Equal(t, "255.255.255.000", mask)
		assert.Equal(t, "192.168.1.20", res.Redirect)
		assert.Equal(t, "192.168.1.20", e.current(t).IP.IPAddress)
		e.onlyNote(t, ControlIP, feedback.KindSuccess)
	})

	t.Run("automatic address echoed by the device", func(t *testing.T) {
		e := newEnv(t)
		e.poster.reply = `{"ipaddress":"010.000.000.007"}`
		res, err := e.svc.SaveIP(context.Background(), IPInput{AddressMode: codec.Text("DHCP IP"), IPAddress: "garbage"})
		require.NoError(t, err)

		assert.Equal(t, []string{"addressmode"}, e.poster.last(t).form.Keys())
		assert.Equal(t, "10.0.0.7", res.Redirect)
		assert.Equal(t, 0, e.current(t).IP.AddressMode)
	})

	t.Run("same address has no redirect", func(t *testing.T) {
		e := newEnv(t)
		res, err := e.svc.SaveIP(context.Background(), IPInput{
			AddressMode: codec.Number(codec.AddressModeCustom),
			IPAddress:   "192.168.1.10",
			Netmask:     "255.255.0.0",
		})
		require.NoError(t, err)
		assert.Empty(t, res.Redirect)
		assert.Equal(t, "255.255.0.0", res.IP.Netmask)
	})
}

func TestPresets(t *testing.T) {
	t.Run("factory preset", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.LoadPreset(context.Background(), 1, codec.Number(5)))

		sent := e.poster.last(t)
		assert.Equal(t, "save_preset_netron", sent.endpoint)
		assert.Equal(t, []string{"idx", "PresetNum", "universe"}, sent.form.Keys())
		u, _ := sent.form.Get("universe")
		assert.Equal(t, "4", u, "Art-Net preset universes are zero based")
		assert.Equal(t, 4, e.current(t).Presets[1].Universe)
		note := e.onlyNote(t, ControlPreset, feedback.KindSuccess)
		assert.Equal(t, "Netron preset loaded successfully!", note.Message)
	})

	t.Run("user preset load", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.LoadUserPreset(context.Background(), 1))

		sent := e.poster.last(t)
		assert.Equal(t, "load_preset_netron", sent.endpoint)
		n, _ := sent.form.Get("PresetNum")
		assert.Equal(t, "101", n)
	})

	t.Run("user preset rename", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.RenameUserPreset(context.Background(), 0, "  Finale "))

		sent := e.poster.last(t)
		assert.Equal(t, "save_preset_netron", sent.endpoint)
		idx, _ := sent.form.Get("idx")
		name, _ := sent.form.Get("name")
		assert.Equal(t, "101", idx)
		assert.Equal(t, "Finale", name)
		assert.Equal(t, "Finale", e.current(t).UserPresets[0].Name)
	})

	t.Run("rename refused", func(t *testing.T) {
		for name, call := range map[string]func(*Service) error{
			"locked":   func(s *Service) error { return s.RenameUserPreset(context.Background(), 1, "Mine") },
			"empty":    func(s *Service) error { return s.RenameUserPreset(context.Background(), 0, "   ") },
			"too long": func(s *Service) error { return s.RenameUserPreset(context.Background(), 0, "thirteen char") },
			"missing":  func(s *Service) error { return s.RenameUserPreset(context.Background(), 5, "x") },
		} {
			e := newEnv(t)
			err := call(e.svc)
			assert.True(t, IsValidation(err), name)
			assert.Zero(t, e.poster.count(), name)
		}
	})
}

func TestCues(t *testing.T) {
	t.Run("run", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.RunCue(context.Background(), 2, true))

		sent := e.poster.last(t)
		assert.Equal(t, "run_cues", sent.endpoint)
		assert.Equal(t, []string{"CurrentCue", "CuesResendEth"}, sent.form.Keys())
		st := e.current(t)
		assert.Equal(t, device.CuesStatus{CurrentCue: 2, CueRunningName: "Main"}, st.CuesStatus)
		assert.Equal(t, 1, st.CuesSetting.CuesResendEth)
	})

	t.Run("stop", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.RunCue(context.Background(), 0, false))
		assert.Equal(t, 0, e.current(t).CuesStatus.CurrentCue)
	})

	t.Run("save", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.svc.SaveCue(context.Background(), 1))
		sent := e.poster.last(t)
		assert.Equal(t, "save_cues", sent.endpoint)
		n, _ := sent.form.Get("CueNum")
		assert.Equal(t, "1", n)

		assert.True(t, IsValidation(newEnv(t).svc.SaveCue(context.Background(), 0)))
	})

	t.Run("edit", func(t *testing.T) {
		e := newEnv(t)
		cue, err := e.svc.EditCue(context.Background(), 1, CueInput{
			Name:     " Opening ",
			FadeTime: codec.Text("00:00:05"),
			HoldTime: codec.Number(10),
			LinkCue:  codec.Text(codec.EmptyLabel),
		})
		require.NoError(t, err)

		assert.Equal(t, device.Cue{Index: 1, Name: "Opening", FadeTime: 5, HoldTime: 10}, cue)
		assert.Equal(t, cue, e.current(t).Cues[0])
		sent := e.poster.last(t)
		assert.Equal(t, "edit_cues", sent.endpoint)
		assert.Equal(t, []string{"CueNum", "name", "fadeTime", "holdTime", "linkCue"}, sent.form.Keys())
	})

	t.Run("edit keeps fields left empty", func(t *testing.T) {
		e := newEnv(t)
		cue, err := e.svc.EditCue(context.Background(), 1, CueInput{Name: "Opening"})
		require.NoError(t, err)

		assert.Equal(t, device.Cue{Index: 1, Name: "Opening", FadeTime: 3, HoldTime: 10, LinkCue: 2}, cue)
		assert.Equal(t, cue, e.current(t).Cues[0])
		sent := e.poster.last(t)
		for key, want := range map[string]string{"name": "Opening", "fadeTime": "3", "holdTime": "10", "linkCue": "2"} {
			got, _ := sent.form.Get(key)
			assert.Equal(t, want, got, key)
		}

		e = newEnv(t)
		cue, err = e.svc.EditCue(context.Background(), 1, CueInput{HoldTime: codec.Number(20)})
		require.NoError(t, err)
		assert.Equal(t, device.Cue{Index: 1, Name: "Intro", FadeTime: 3, HoldTime: 20, LinkCue: 2}, cue)
	})

	t.Run("edit unknown slot", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.EditCue(context.Background(), 3, CueInput{Name: "Extra"})
		assert.ErrorIs(t, err, device.ErrUnknownEntity)
		assert.Zero(t, e.poster.count())
	})

	t.Run("edit refused", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.svc.EditCue(context.Background(), 2, CueInput{Name: "Main", LinkCue: codec.Number(2)})
		assert.ErrorIs(t, err, cues.ErrInvalidCue)
		assert.Zero(t, e.poster.count())

		e = newEnv(t)
		_, err = e.svc.EditCue(context.Background(), 1, CueInput{Name: "Intro", FadeTime: codec.Text("soon")})
		assert.True(t, IsValidation(err))
		assert.ErrorIs(t, err, codec.ErrInvalidValue)
	})
}

func TestSaveRemoteInput(t *testing.T) {
	e := newEnv(t)

	in, err := e.svc.SaveRemoteInput(context.Background(), 0, map[string]codec.Display{
		"rmTriggerSource":  codec.Text("Art-Net"),
		"rmSourceUniverse": codec.Number(1),
		"rmSourceChannel":  codec.Number(10),
	})
	require.NoError(t, err)

	assert.Equal(t, codec.TriggerArtNet, in.TriggerSource)
	assert.Equal(t, 0, in.SourceUniverse)
	assert.Equal(t, 10, in.SourceChannel)
	sent := e.poster.last(t)
	assert.Equal(t, "save_input", sent.endpoint)
	assert.Equal(t, []string{"idx", "rmTriggerSource", "rmSourceUniverse", "rmSourceChannel", "rmAction", "rmActionValue"}, sent.form.Keys())
	assert.Equal(t, in, e.current(t).RemoteInputs[0])
}

func TestSaveRemoteInput_Refused(t *testing.T) {
	for name, values := range map[string]map[string]codec.Display{
		"channel":          {"rmSourceChannel": codec.Number(0)},
		"dmx universe":     {"rmSourceUniverse": codec.Number(3)},
		"unknown field":    {"ptMode": codec.Number(1)},
		"unknown action":   {"rmAction": codec.Text("Explode")},
		"unparsable value": {"rmActionValue": codec.Text("ten")},
	} {
		e := newEnv(t)
		_, err := e.svc.SaveRemoteInput(context.Background(), 0, values)
		assert.True(t, IsValidation(err), name)
		assert.Zero(t, e.poster.count(), name)
	}
}

func TestIdentify(t *testing.T) {
	e := newEnv(t)

	status, err := e.svc.ToggleIdentify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status)
	assert.Equal(t, 2, e.current(t).Identify.IdentifyStatus)
	v, _ := e.poster.last(t).form.Get("IdentifyStatus")
	assert.Equal(t, "2", v)

	_, err = e.svc.ToggleIdentify(context.Background())
	assert.ErrorIs(t, err, ErrControlBusy)
}

func TestNotLoaded(t *testing.T) {
	state := device.NewAggregator(transport.NewFixtures(t.TempDir(), nil), device.DefaultNames(), nil, nil)
	tracker := feedback.NewTracker(time.Hour, nil, nil)
	defer tracker.Close()
	poster := &fakePoster{}
	svc := NewService(state, poster, tracker, DefaultEndpoints(), nil)

	err := svc.SetIdentify(context.Background(), 2)
	assert.ErrorIs(t, err, device.ErrNotLoaded)
	assert.Zero(t, poster.count())
}
