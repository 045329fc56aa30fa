// Package proc handles the process plumbing around the HTTP transports:
// freeing a TCP port that a stale server still holds, and supervising an
// ngrok tunnel subprocess whose lifetime is tied to the server's.
package proc
