// Command asepackweb serves reduced sprite assets over HTTP, reducing
// documents on demand and caching the results.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-asepack/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for asepackweb")
	spriteDir     = flag.String("sprite_dir", ".", "directory holding the sprite documents to serve")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	figure.NewFigure("asepackweb", "", true).Print()

	r := mux.NewRouter()
	web.NewHandler(*spriteDir).RegisterRoutes(r)

	glog.Infof("serving sprite documents from %s on %s", *spriteDir, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stdout, r)))
}
