package arbiter

import "go.uber.org/zap"

// zapFields builds the {gameId, ...extra k/v pairs} fields every
// operation's log line carries, extra given as alternating key/value
// strings.
func zapFields(gameID uint64, extra ...string) []zap.Field {
	fields := make([]zap.Field, 0, 1+len(extra)/2)
	fields = append(fields, zap.Uint64("gameId", gameID))
	for i := 0; i+1 < len(extra); i += 2 {
		fields = append(fields, zap.String(extra[i], extra[i+1]))
	}
	return fields
}
