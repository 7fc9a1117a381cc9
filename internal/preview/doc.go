/*
Package preview turns generated README markdown into something a terminal
(or the local preview server) can show.

Render converts markdown to HTML with goldmark, then walks the result with
goquery to strip active content and to route images from known badge and
stat providers through the same-origin image proxy:

	https://img.shields.io/badge/go-1.24-blue
	  -> /api/proxy-image?url=https%3A%2F%2Fimg.shields.io%2Fbadge%2Fgo-1.24-blue

Sources that are relative, unparseable or on another host pass through
untouched. Every image gets referrerpolicy="no-referrer" and loading="lazy".

The sanitized tree is also flattened into Blocks for the TUI.
*/
package preview
