package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormEncode_OrderAndEndFlag(t *testing.T) {
	var f Form
	f.SetInt("idx", 0)
	f.SetInt("ptMode", 2)
	f.Set("name", "Big show")
	f.SetInt("ptMode", 1)

	assert.Equal(t, "idx=0&ptMode=1&name=Big+show&EndFlag=1", f.Encode())
	assert.Equal(t, []string{"idx", "ptMode", "name"}, f.Keys())

	v, ok := f.Get("ptMode")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = f.Get("missing")
	assert.False(t, ok)
}

func TestFormEncode_EmptyFormStillFlagged(t *testing.T) {
	var f Form
	f.Set(EndFlag, "0")
	assert.Equal(t, "EndFlag=1", f.Encode())
}

func deviceServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", Timeout: time.Second}, nil)
}

func TestGetJSON(t *testing.T) {
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Setting.json", r.URL.Path)
		_, _ = io.WriteString(w, `{"DeviceType":"NETRON EN4"}`)
	})

	doc, err := c.GetJSON(context.Background(), "Setting.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"DeviceType":"NETRON EN4"}`, string(doc))
}

func TestGetJSON_StatusAndInvalidBody(t *testing.T) {
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `<html>`)
	})

	_, err := c.GetJSON(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrStatus)

	_, err = c.GetJSON(context.Background(), "broken.json")
	assert.Error(t, err)
}

func TestGetManyJSON_ConcurrentAndOrdered(t *testing.T) {
	var inFlight, peak int32
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		_, _ = io.WriteString(w, `"`+r.URL.Path+`"`)
	})

	names := []string{"a.json", "b.json", "c.json", "d.json"}
	docs, err := c.GetManyJSON(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	for i, name := range names {
		assert.JSONEq(t, `"/`+name+`"`, string(docs[i]))
	}
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestGetManyJSON_OneFailureFailsBatch(t *testing.T) {
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Cues.json" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	})

	docs, err := c.GetManyJSON(context.Background(), []string{"Setting.json", "Cues.json", "IP.json"})
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrStatus)
}

func TestPostForm(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
		ct   string
	)
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		body, ct = string(b), r.Header.Get("Content-Type")
		mu.Unlock()
		assert.Equal(t, "/save_info", r.URL.Path)
		_, _ = io.WriteString(w, `{"ipaddress":"010.000.000.002"}`)
	})

	var f Form
	f.SetInt("addressmode", 3)
	f.Set("ipaddress", "010.000.000.002")
	resp, err := c.PostForm(context.Background(), "save_info", f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ipaddress":"010.000.000.002"}`, string(resp))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "addressmode=3&ipaddress=010.000.000.002&EndFlag=1", body)
	assert.Contains(t, ct, "application/x-www-form-urlencoded")
}

func TestPostForm_EmptyReplyAndFailure(t *testing.T) {
	var calls int32
	c := deviceServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/save_cues" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
	})

	resp, err := c.PostForm(context.Background(), "set_identify", Form{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(resp))

	_, err = c.PostForm(context.Background(), "save_cues", Form{})
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Setting.json"), []byte(`{"DeviceType":"NETRON EN4"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IP.json"), []byte(`{"addressmode":0}`), 0o644))

	fx := NewFixtures(dir, nil)
	docs, err := fx.GetManyJSON(context.Background(), []string{"Setting.json", "IP.json"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addressmode":0}`, string(docs[1]))

	_, err = fx.GetJSON(context.Background(), "Cues.json")
	assert.Error(t, err)

	// names resolve inside the fixture directory
	doc, err := fx.GetJSON(context.Background(), "../Setting.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"DeviceType":"NETRON EN4"}`, string(doc))

	var f Form
	f.SetInt("IdentifyStatus", 2)
	resp, err := fx.PostForm(context.Background(), "set_identify", f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"IdentifyStatus":"2"}`, string(resp))
}
