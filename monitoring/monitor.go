// Package monitoring exposes a running system.Comp over HTTP for
// operator inspection: register dumps, a raw memory-word peek, the
// current cycle count, host process stats, and an on-demand CPU
// profile.
//
// Adapted from sarchlab/akita's monitoring/monitor.go: the
// gorilla/mux.Router route table, the gopsutil/process host-stats
// handler, and the google/pprof/profile on-demand capture handler are
// kept; the teacher's engine-pause/continue/tick controls (built for a
// discrete-event sim.Engine) and its goseth-based generic component
// serialization are replaced with handlers specific to system.Comp's
// shape, since Pulse has no engine to pause and no generic reflection
// serializer in its dependency set (see DESIGN.md for why goseth is not
// wired).
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/jawline/Pulse/system"
)

// Server turns a running system.Comp into an HTTP monitoring endpoint.
type Server struct {
	sys        *system.Comp
	portNumber int
}

// NewServer constructs a Server over sys, not yet listening.
func NewServer(sys *system.Comp) *Server {
	return &Server{sys: sys}
}

// WithPortNumber sets the TCP port to listen on; 0 (the default) picks
// an ephemeral port, matching the teacher's WithPortNumber guard against
// implausibly low port numbers.
func (s *Server) WithPortNumber(port int) *Server {
	if port != 0 && port < 1000 {
		fmt.Fprintf(os.Stderr,
			"monitoring: port %d is not allowed, using a random port instead\n", port)
		port = 0
	}

	s.portNumber = port

	return s
}

// Start begins serving in the background and returns the address it
// bound, so callers (cmd/pulse, tests) can report or open it.
func (s *Server) Start() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz)
	r.HandleFunc("/cycle", s.cycle)
	r.HandleFunc("/registers", s.registers)
	r.HandleFunc("/memory/{address}", s.memoryWord)
	r.HandleFunc("/host", s.host)
	r.HandleFunc("/debug/profile", s.debugProfile)

	addr := ":0"
	if s.portNumber != 0 {
		addr = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("monitoring: listen: %w", err)
	}

	go func() {
		if err := http.Serve(listener, r); err != nil {
			log.Println("monitoring: server stopped:", err)
		}
	}()

	return listener.Addr().String(), nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "ok")
}

func (s *Server) cycle(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, `{"cycle":%d}`, s.sys.Cycle())
}

type registersRsp struct {
	PC    uint32     `json:"pc"`
	X     [32]uint32 `json:"x"`
	Error bool       `json:"error"`
}

func (s *Server) registers(w http.ResponseWriter, _ *http.Request) {
	h := s.sys.Hart(0)

	rsp := registersRsp{PC: h.PC(), Error: h.Error()}
	for i := range rsp.X {
		rsp.X[i] = h.Reg(uint32(i))
	}

	s.writeJSON(w, rsp)
}

func (s *Server) memoryWord(w http.ResponseWriter, r *http.Request) {
	addrStr := mux.Vars(r)["address"]

	addr, err := strconv.ParseUint(addrStr, 0, 32)
	if err != nil {
		http.Error(w, "bad address", http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, `{"address":%d,"word":%d}`, addr, s.sys.Mem().PeekWord(uint32(addr)))
}

type hostRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss"`
}

func (s *Server) host(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, hostRsp{CPUPercent: cpuPercent, MemoryRSS: mem.RSS})
}

// debugProfile captures a one-second CPU profile and returns it as a
// google/pprof/profile.Profile, matching the teacher's
// collectProfile handler.
func (s *Server) debugProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, prof)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("monitoring: encode response:", err)
	}
}
