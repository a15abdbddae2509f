// Package http exposes the glossary actions over HTTP.
//
// Routes mount under /glossary-magic by default:
//   - GET  /get-glossary-words?article={id}
//   - POST /link-glossary-words
//   - POST /connect-glossary-words
//   - POST /connect-used-words
//   - POST /disconnect-glossary-words
//
// Host applications can register handlers on their own mux as needed.
package http
