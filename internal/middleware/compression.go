// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipWriterPool pools gzip writers to reduce allocations
var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

// gzipResponseWriter defers the encoding decision to the first write, so
// bodyless statuses (204, 304) go out without a Content-Encoding header.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
	encoding    bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if status != http.StatusNoContent && status != http.StatusNotModified {
		w.encoding = true
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length") // length changes after compression
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.encoding {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

// finish flushes the gzip stream when one was started.
func (w *gzipResponseWriter) finish() {
	if w.encoding {
		_ = w.gz.Close() // response already sent, nothing actionable on error
	}
}

// Compression adds gzip encoding to responses for clients that accept it.
// Analytics summaries and artwork listings compress well as JSON; scan
// uploads are unaffected because only the response body is encoded.
// WebSocket upgrades pass through untouched.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The live feed upgrade must keep the raw connection.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Caches must key on Accept-Encoding either way.
		w.Header().Add("Vary", "Accept-Encoding")

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		gz.Reset(w)

		gzw := &gzipResponseWriter{ResponseWriter: w, gz: gz}
		defer func() {
			gzw.finish()
			gzipWriterPool.Put(gz)
		}()

		next.ServeHTTP(gzw, r)
	})
}
