/*
Package keybinds provides customizable keyboard binding management.

# Contexts

Bindings live in contexts. Match walks a context's parent chain before
giving up:

	preview -> normal -> global
	text_input -> global
	editor -> global
	help -> global

So the preview panel inherits every normal-mode key and only adds
scrolling, while the username input and the editable preview see nothing
but their own keys and ctrl+c.

Sections are toggled with per-section actions (toggle_section_bio, ...)
bound to 1..7 in canonical order.

# Configuration File Format

~/.readmectl/keybinds.json maps actions to comma-separated keys per
context. Comments are allowed. Listing an action replaces its default keys
in that context; an empty string unbinds it.

	{
	  "version": "1.0",
	  // vim users
	  "normal": {
	    "generate": "enter,r",
	    "copy_to_clipboard": "y"
	  },
	  "preview": {
	    "page_down": "ctrl+f,pgdown"
	  }
	}

"readmectl keybinds --init" writes the defaults in this format.

# Multi-Key Sequences

A key bound to go_to_top_prepare starts a two-key sequence; "gg" jumps to
the top of the preview.

# Validation

The validator reports unknown actions, required actions left without a key
(quit, generate, leaving the editor) as errors, and rebound reserved keys
or shadowed parent bindings as warnings.
*/
package keybinds
