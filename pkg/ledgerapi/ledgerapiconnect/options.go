package ledgerapiconnect

import (
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// clientOptions puts the JSON codec first so callers may still override it.
func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(ledgerapi.Codec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(ledgerapi.Codec{})}, opts...)
}

func trimSlash(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
