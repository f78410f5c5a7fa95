// Command sprserve serves sprites and composed entries over HTTP.
//
// Routes:
//
//	/                    table of entries
//	/spr/{idx}           a single sprite
//	/entry/{id}          frame 0 of an entry (?layer=&x=&y=&z=&fr= select others)
//	/entry/{id}.gif      all frames of an entry
//	/entry/{id}/{n}      the n-th sprite of an entry
//	/debug/requests      request traces
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/sprdump/things/full"
	"badc0de.net/pkg/sprdump/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for sprserve")
	remoteTraces  = flag.Bool("remote_traces", false, "whether to show /debug/requests to non-local clients")
)

func main() {
	full.SetupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	th, err := full.FromFilePathFlags()
	if err != nil {
		glog.Exitf("Failed to load datafiles: %v", err)
	}
	if *remoteTraces {
		trace.AuthRequest = func(req *http.Request) (any, sensitive bool) { return true, true }
	}

	r := mux.NewRouter()
	web.NewHandler(th, full.PathFlagValue(full.FlagTibiaSprPath)).RegisterRoutes(r)
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	h := handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stderr, r))
	glog.Infof("sprserve listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, h))
}
