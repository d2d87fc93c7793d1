package server

import (
	"testing"
	"time"

	"hexcalc/model"
)

const hubDoc = `
name: water-water
hot: {fluid: Water, mass_flow: 1.0, p_in: 1.0e6, t_in: 423.15}
cold: {fluid: Water, mass_flow: 1.2, p_in: 5.0e5, t_in: 293.15}
geometry: {length: 5, d_tube: 0.02, d_shell: 0.12, tubes: 10}
`

func recv(t *testing.T, ch chan model.Msg) model.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no reply")
		return model.Msg{}
	}
}

func TestHubLoadsInput(t *testing.T) {
	h := NewHub()
	go h.handleRequest()
	defer close(h.msg)

	h.msg <- model.Msg{Type: "input", Content: hubDoc}
	reply := recv(t, h.loaded)
	if reply.Type != "loaded" || reply.Content != "water-water" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestHubRejectsBadInput(t *testing.T) {
	h := NewHub()
	go h.handleRequest()
	defer close(h.msg)

	h.msg <- model.Msg{Type: "input", Content: "name: broken"}
	reply := recv(t, h.failed)
	if reply.Type != "error" {
		t.Errorf("reply = %+v", reply)
	}
}

// the response loop must not outlive the connection
func TestHubResponderStopsOnDisconnect(t *testing.T) {
	h := NewHub()
	go h.handleRequest()
	stopped := make(chan struct{})
	go func() {
		h.handleResponse()
		close(stopped)
	}()

	close(h.msg)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("response loop still running after disconnect")
	}
}

func TestHubSolveNeedsInput(t *testing.T) {
	h := NewHub()
	go h.handleRequest()
	defer close(h.msg)

	h.msg <- model.Msg{Type: "solve"}
	reply := recv(t, h.failed)
	if reply.Type != "error" {
		t.Errorf("reply = %+v", reply)
	}
}
