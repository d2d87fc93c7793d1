package main

import (
	"errors"
	"flag"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hexcalc/exchanger"
	"hexcalc/loader"
	"hexcalc/props"
	"hexcalc/results"
	"hexcalc/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	input := flag.String("input", "", "exchanger YAML document")
	out := flag.String("out", "results", "base directory for exported profiles")
	serve := flag.Bool("serve", false, "run the results websocket server instead of a one-shot solve")
	conf := flag.String("conf", "conf/config.ini", "defaults file")
	t0 := flag.Float64("t0", 298.15, "ambient temperature for exergy evaluation, K")
	flag.Parse()

	defaults := loader.LoadDefaults(*conf)

	if *serve {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		s := server.NewServer(defaults.ServerAddr, upgrader)
		s.Serve()
		return
	}

	if *input == "" {
		log.Fatal("no -input document given")
	}
	in, err := loader.Load(*input)
	if err != nil {
		log.Fatal(err)
	}

	backend := props.NewRealFluid()

	simple := exchanger.NewSimpleModel(in, backend)
	qMax, _, err := simple.QMax()
	if err != nil {
		log.Fatal(err)
	}
	lmtd, err := simple.LMTD()
	if err != nil {
		var deg *exchanger.DegenerateLMTDError
		if !errors.As(err, &deg) {
			log.Fatal(err)
		}
		log.Warn(err)
	}

	m := exchanger.NewCounterflowModel(in, backend)
	profile, err := m.Solve()
	if err != nil {
		var conv *exchanger.BVPConvergenceError
		if errors.As(err, &conv) {
			log.WithFields(log.Fields{
				"name":     in.Name,
				"nodes":    len(conv.Inner.Mesh),
				"residual": conv.Inner.Residual,
			}).Fatal("solve did not converge")
		}
		log.Fatal(err)
	}

	ds, err := m.EntropyProduction()
	if err != nil {
		log.Fatal(err)
	}
	exIn, err := m.ExergyEntering(*t0)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"name":              in.Name,
		"duty":              profile.Duty,
		"qMax":              qMax,
		"lmtd":              lmtd,
		"entropyProduction": ds,
		"exergyLoss":        ds * *t0,
		"exergyEntering":    exIn,
	}).Info("exchanger solved")

	dir, err := results.Dir(*out)
	if err != nil {
		log.Fatal(err)
	}
	path, err := results.Export(dir, profile)
	if err != nil {
		log.Fatal(err)
	}
	log.Info("profile written to ", path)
}
