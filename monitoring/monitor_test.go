package monitoring_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawline/Pulse/monitoring"
	"github.com/jawline/Pulse/system"
)

func TestHealthzAndRegisters(t *testing.T) {
	sys := system.MakeBuilder().WithMemoryCapacity(1024).WithHarts(1).Build("sys")
	sys.Mem().PokeWord(0, 0x12300093) // addi x1, x0, 0x123

	for i := 0; i < 5 && sys.Hart(0).PC() == 0; i++ {
		sys.Step()
	}

	srv := monitoring.NewServer(sys)

	addr, err := srv.Start()
	require.NoError(t, err)

	rsp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	rsp2, err := http.Get("http://" + addr + "/registers")
	require.NoError(t, err)
	defer rsp2.Body.Close()

	var parsed struct {
		PC uint32    `json:"pc"`
		X  [32]uint32 `json:"x"`
	}

	require.NoError(t, json.NewDecoder(rsp2.Body).Decode(&parsed))
	assert.EqualValues(t, 0x123, parsed.X[1])
}
