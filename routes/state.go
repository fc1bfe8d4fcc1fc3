package routes

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/victorjacobs/go-smartthings/bridge"
)

// State serves the cached state of all registered fans. Reads come from the
// local status cache, so no cloud round trip happens per request.
func State(b *bridge.Bridge) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if marshaled, err := json.Marshal(b.States()); err != nil {
			log.Printf("error marshaling: %v", err)
		} else {
			w.Header().Set("Content-Type", "application/json")
			w.Write(marshaled)
		}
	}
}
