package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hexcalc/exchanger"
	"hexcalc/loader"
	"hexcalc/model"
	"hexcalc/props"
	"hexcalc/results"
)

// Hub drives one client connection: it accepts an exchanger document, runs
// the solve and pushes the encoded profile back.
type Hub struct {
	conn    *websocket.Conn
	backend props.MixtureBackend
	input   *exchanger.STHeatExchangerInput

	// request
	msg chan model.Msg
	// response
	loaded chan model.Msg
	solved chan model.Msg
	failed chan model.Msg
	// closed once msg drains, releases the response loop
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		backend: props.NewRealFluid(),
		msg:     make(chan model.Msg, 10),
		loaded:  make(chan model.Msg, 10),
		solved:  make(chan model.Msg, 10),
		failed:  make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

func (h *Hub) handleRequest() {
	defer close(h.done)
	for msg := range h.msg {
		switch msg.Type {
		case "input":
			in, err := loader.Parse([]byte(msg.Content))
			if err != nil {
				h.failed <- failMsg("", err)
				continue
			}
			h.input = in
			h.loaded <- model.Msg{Type: "loaded", Content: in.Name}
		case "solve":
			if h.input == nil {
				h.failed <- failMsg("", errors.New("no input loaded"))
				continue
			}
			h.solve()
		default:
			log.Warn("no such message type: ", msg.Type)
		}
	}
}

func (h *Hub) solve() {
	start := time.Now()
	m := exchanger.NewCounterflowModel(h.input, h.backend)
	profile, err := m.Solve()
	if err != nil {
		h.failed <- failMsg(h.input.Name, err)
		return
	}
	payload, err := results.EncodeProfile(profile)
	if err != nil {
		h.failed <- failMsg(h.input.Name, err)
		return
	}
	log.WithFields(log.Fields{
		"name": h.input.Name,
		"took": time.Since(start),
	}).Info("solve pushed")
	h.solved <- model.Msg{
		Type:    "profile",
		Content: base64.StdEncoding.EncodeToString(payload),
	}
}

func (h *Hub) handleResponse() {
	for {
		var reply model.Msg
		select {
		case reply = <-h.loaded:
		case reply = <-h.solved:
		case reply = <-h.failed:
		case <-h.done:
			return
		}
		if err := h.conn.WriteJSON(&reply); err != nil {
			log.Error("write: ", err)
			return
		}
	}
}

// failMsg surfaces the failing exchanger, the error kind and, for
// convergence failures, the last mesh and residual snapshot.
func failMsg(name string, err error) model.Msg {
	content := err.Error()
	var conv *exchanger.BVPConvergenceError
	if errors.As(err, &conv) {
		content = fmt.Sprintf("%s (last mesh: %d nodes, residual %.3e)",
			content, len(conv.Inner.Mesh), conv.Inner.Residual)
	}
	if name != "" {
		content = name + ": " + content
	}
	return model.Msg{Type: "error", Content: content}
}
