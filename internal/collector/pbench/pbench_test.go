package pbench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benchwrap/benchwrap/internal/collector"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_RequiresMapping(t *testing.T) {
	_, err := New(collector.Config{Params: map[string]any{}}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigMissing)
}

func TestNew_MappingMustExist(t *testing.T) {
	_, err := New(collector.Config{
		Params: map[string]any{"host_tool_mapping": "/nonexistent/tools.json"},
	}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestRegistered(t *testing.T) {
	_, ok := collector.Lookup("pbench")
	assert.True(t, ok, "expected pbench to self-register at load time")
}

func TestStartup_RequiresRedisAndSink(t *testing.T) {
	mapping := writeMapping(t, `{"localhost": ["sar"]}`)
	c, err := New(collector.Config{
		Params: map[string]any{"host_tool_mapping": mapping},
	}, zap.NewNop())
	require.NoError(t, err)

	err = c.Startup(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigMissing)
}

func TestCheckLocal_RejectsRemoteHosts(t *testing.T) {
	mapping := writeMapping(t, `{"farawayhost.example.com": ["sar"]}`)
	c, err := New(collector.Config{
		Params: map[string]any{
			"host_tool_mapping": mapping,
			"create_local":      true,
		},
	}, zap.NewNop())
	require.NoError(t, err)

	p := c.(*Pbench)
	hostTools, err := p.loadMapping()
	require.NoError(t, err)

	err = p.checkLocal(hostTools)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestLoadMapping_BadJSON(t *testing.T) {
	mapping := writeMapping(t, `not json`)
	c, err := New(collector.Config{
		Params: map[string]any{"host_tool_mapping": mapping},
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.(*Pbench).loadMapping()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestRegisterArgs(t *testing.T) {
	local := registerArgs("localhost", "sar", "thisnode")
	assert.Equal(t, []string{"pbench-register-tool", "--name=sar"}, local)

	self := registerArgs("thisnode", "iostat", "thisnode")
	assert.Equal(t, []string{"pbench-register-tool", "--name=iostat"}, self)

	remote := registerArgs("other.example.com", "sar", "thisnode")
	assert.Equal(t, []string{"pbench-register-tool", "--name=sar", "--remote=other.example.com"}, remote)
}

func TestStartSample_BeforeStartup(t *testing.T) {
	mapping := writeMapping(t, `{"localhost": ["sar"]}`)
	c, err := New(collector.Config{
		Params: map[string]any{"host_tool_mapping": mapping},
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.StartSample(context.Background(), 1)
	assert.Error(t, err)
}

func TestStopSample_WithoutRunningSample(t *testing.T) {
	mapping := writeMapping(t, `{"localhost": ["sar"]}`)
	c, err := New(collector.Config{
		Params: map[string]any{"host_tool_mapping": mapping},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, c.StopSample(context.Background()))
}
