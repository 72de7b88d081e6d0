package main

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogfnsi/nsa-core/pkg/codec"
	"github.com/ogfnsi/nsa-core/pkg/codec/jsoncodec"
	"github.com/ogfnsi/nsa-core/pkg/dispatch"
	"github.com/ogfnsi/nsa-core/pkg/requester"
	"github.com/ogfnsi/nsa-core/pkg/util"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for inbound requester callbacks",
	Long: `serve starts an HTTP listener whose single handler decodes an
inbound message and dispatches it to the matching requester.Callbacks
entry point. The wire body is JSON here, not the real NSI SOAP/XML
envelope — this is a demonstration codec, not a production transport.

A caller names the action with the X-NSI-Action header; the body is the
JSON envelope jsoncodec.Codec produces/consumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := serveListenAddr
		if listenAddr == "" {
			listenAddr = app.settings.GetListenAddr()
		}

		reg := codec.NewRegistry(jsoncodec.New())
		cb := requester.New(app.registry, app.errors, app.pending)
		dispatch.Register(reg, cb)

		mux := http.NewServeMux()
		mux.HandleFunc("/nsi/callback", callbackHandler(reg))
		mux.HandleFunc("/healthz", healthzHandler)

		server := &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		util.Infof("nsa-agent listening on %s", listenAddr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func callbackHandler(reg *codec.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := r.Header.Get("X-NSI-Action")
		if action == "" {
			http.Error(w, "missing X-NSI-Action header", http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "reading request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		reply, err := reg.Dispatch(action, body)
		if err != nil {
			util.WithField("action", action).Warnf("dispatch failed: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(reply)
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (overrides settings.listen_addr)")
}
