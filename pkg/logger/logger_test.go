package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procura-api/pkg/logger"
)

func TestNewWithWriter_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "info", Service: "procura"}, &buf)

	l.WithComponent("orders").Info().Str("order_id", "o1").Msg("pedido bloqueado")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "procura", ev["service"])
	assert.Equal(t, "orders", ev["component"])
	assert.Equal(t, "o1", ev["order_id"])
	assert.Equal(t, "info", ev["level"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Level: "WARN"}, &buf)

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
