/*
	SectorMapper, top-down map renderer for voxel worlds
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/maxsupermanhd/SectorMapper/render"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
)

const maxDownscale = 4

func robotsHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "User-agent: *\nDisallow: /\n\n\n")
}

func createRouter(defaults renderSettings) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/robots.txt", robotsHandler).Methods("GET")
	router.HandleFunc("/map.{format}", mapHandler(defaults)).Methods("GET")
	router.HandleFunc("/worlds", apiHandle(apiListWorlds)).Methods("GET")
	router.HandleFunc("/worlds/{world}/map.{format}", mapHandler(defaults)).Methods("GET")
	router.HandleFunc("/stats", apiHandle(apiStats)).Methods("GET")

	router1 := handlers.ProxyHeaders(router)
	router2 := handlers.CompressHandler(router1)
	router3 := handlers.CustomLoggingHandler(os.Stdout, router2, customLogger)
	router4 := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(router3)
	return router4
}

func runWeb(ctx context.Context, addr string, defaults renderSettings) {
	websrv := http.Server{
		Addr:    addr,
		Handler: createRouter(defaults),
	}
	log.Println("Web server listens on " + addr)
	go func() {
		if err := websrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Web server returned an error: %s\n", err)
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := websrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %+v", err)
	}
}

func mapHandler(defaults renderSettings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := mux.Vars(r)
		format, err := imageFormat(params["format"])
		if err != nil {
			http.Error(w, "Bad encoding", http.StatusBadRequest)
			return
		}
		wname := params["world"]
		if wname == "" {
			wname = defaultWorld()
		}
		if !worldNameRegexp.MatchString(wname) {
			http.Error(w, "Invalid world name", http.StatusBadRequest)
			return
		}
		s, err := getWorld(wname)
		if err != nil {
			http.Error(w, "World not found", http.StatusNotFound)
			return
		}
		rs, level, err := settingsFromQuery(defaults, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		loc := primitives.ImageLocation{
			World:   wname,
			Variant: variantName(format, rs),
			Box:     rs.Box,
			S:       level,
		}
		useCache := ic != nil && r.URL.Query().Get("cached") != "false"
		if useCache {
			if c := ic.GetCachedImageBlocking(loc); c != nil && c.Img != nil {
				w.Header().Set("Last-Modified", c.ModTime.UTC().Format(http.TimeFormat))
				writeImage(w, format, c.Img)
				return
			}
		}
		log.Printf("Rendering %s", loc.String())
		img, err := renderMap(r.Context(), s, rs)
		if errors.Is(err, render.ErrNothingToRender) {
			http.Error(w, "Nothing to render in "+rs.Box.String(), http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("Failed to render %s: %v", loc.String(), err)
			http.Error(w, "Failed to render: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if ic != nil && r.Header.Get("Cache-Control") != "no-store" {
			ic.SetCachedImage(loc, img)
		}
		writeImage(w, format, img)
	}
}

// settingsFromQuery applies bounding box, overlay toggles and
// downscale level "s" (size is halved per level) over defaults.
func settingsFromQuery(defaults renderSettings, q url.Values) (renderSettings, int, error) {
	rs := defaults
	ints := []struct {
		name string
		dst  *int
	}{
		{"xmin", &rs.Box.XMin},
		{"xmax", &rs.Box.XMax},
		{"zmin", &rs.Box.ZMin},
		{"zmax", &rs.Box.ZMax},
		{"border", &rs.Opts.Border},
	}
	for _, v := range ints {
		if !q.Has(v.name) {
			continue
		}
		i, err := strconv.Atoi(q.Get(v.name))
		if err != nil {
			return rs, 0, fmt.Errorf("bad %s: %w", v.name, err)
		}
		*v.dst = i
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"origin", &rs.Opts.DrawOrigin},
		{"players", &rs.Opts.DrawPlayers},
		{"scale", &rs.Opts.DrawScale},
	}
	for _, v := range bools {
		if !q.Has(v.name) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(v.name))
		if err != nil {
			return rs, 0, fmt.Errorf("bad %s: %w", v.name, err)
		}
		*v.dst = b
	}
	if rs.Opts.DrawScale && !defaults.Opts.DrawScale && !q.Has("border") {
		rs.Opts.Border = render.ScaleBorder
	}
	level := 0
	if q.Has("s") {
		l, err := strconv.Atoi(q.Get("s"))
		if err != nil || l < 0 || l > maxDownscale {
			return rs, 0, fmt.Errorf("bad s, expected 0 to %d", maxDownscale)
		}
		level = l
	}
	rs.Scale = defaults.Scale / math.Pow(2, float64(level))
	if rs.Box.XMin > rs.Box.XMax || rs.Box.ZMin > rs.Box.ZMax {
		return rs, 0, fmt.Errorf("empty bounding box %s", rs.Box.String())
	}
	if rs.Opts.Border < 0 || rs.Opts.Border > 1024 {
		return rs, 0, fmt.Errorf("bad border %d", rs.Opts.Border)
	}
	return rs, level, nil
}

func variantName(format string, rs renderSettings) string {
	toggles := ""
	if rs.Opts.DrawOrigin {
		toggles += "o"
	}
	if rs.Opts.DrawPlayers {
		toggles += "p"
	}
	if rs.Opts.DrawScale {
		toggles += "s"
	}
	if toggles == "" {
		toggles = "plain"
	}
	return fmt.Sprintf("%s-%s-b%d", format, toggles, rs.Opts.Border)
}

type worldInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"addr"`
	Online  bool   `json:"online"`
	Status  string `json:"status,omitempty"`
}

func apiListWorlds(w http.ResponseWriter, r *http.Request) (int, string) {
	storagesLock.Lock()
	ret := make([]worldInfo, 0, len(storages))
	for k, s := range storages {
		wi := worldInfo{Name: k, Type: s.Type, Address: s.Address, Online: s.Driver != nil}
		if s.Driver != nil {
			st, err := s.Driver.GetStatus()
			if err != nil {
				st = err.Error()
			}
			wi.Status = st
		}
		ret = append(ret, wi)
	}
	storagesLock.Unlock()
	sortWorlds(ret)
	setContentTypeJson(w)
	return marshalOrFail(200, ret)
}

func apiStats(w http.ResponseWriter, r *http.Request) (int, string) {
	ret := map[string]any{
		"version": GitTag,
		"commit":  CommitHash,
	}
	if p := colors.Load(); p != nil {
		ret["colors"] = p.Len()
	}
	if ic != nil {
		ret["cache"] = ic.GetStats()
	}
	ret["host"] = hostStats()
	setContentTypeJson(w)
	return marshalOrFail(200, ret)
}

func hostStats() map[string]any {
	load, _ := load.Avg()
	virtmem, _ := mem.VirtualMemory()
	uptime, _ := host.Uptime()
	uptimetime, _ := time.ParseDuration(strconv.Itoa(int(uptime)) + "s")
	ret := map[string]any{
		"uptime": uptimetime.String(),
	}
	if load != nil {
		ret["load"] = fmt.Sprintf("%.2f %.2f %.2f", load.Load1, load.Load5, load.Load15)
	}
	if virtmem != nil {
		ret["memory"] = fmt.Sprintf("%s / %s (%.1f%%)", humanize.Bytes(virtmem.Used), humanize.Bytes(virtmem.Total), virtmem.UsedPercent)
	}
	return ret
}
