package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

// DumpExchanges writes every completed request/response pair made by
// client to output, numbered in the order they complete. A nil output
// makes this a no-op.
func DumpExchanges(client *resty.Client, prefix string, output Output) {
	if output == nil {
		return
	}

	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%s-%03d", prefix, atomic.AddUint64(&counter, 1))
		output.Write(id, FormatExchange(res))
		slog.DebugContext(
			res.Request.Context(), "dumped http exchange",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"dump_id", id,
		)
		return nil
	})
}
