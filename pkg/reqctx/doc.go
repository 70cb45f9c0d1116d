// Package reqctx carries request-scoped data through context.Context.
//
// HTTP middleware sets RequestMeta for every request and AuthClaims once a
// bearer token has been verified. Services read them back to attribute
// writes (who cancelled a receipt, who finalized a month) and to tag log
// lines with the request id:
//
//	if by, ok := reqctx.UsernameFromContext(ctx); ok {
//	    receipt.CancelledBy = &by
//	}
//	slog.InfoContext(ctx, "receipt cancelled", "request_id", reqctx.RequestIDFromContext(ctx))
//
// Keys are unexported so only this package can set them.
package reqctx
