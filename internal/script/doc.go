// Package script runs Lua scene scripts.
//
// A script is a Lua chunk executed in a sandboxed gopher-lua state. The
// io, os and debug libraries are not opened, code loading globals are
// removed, and require only resolves string, table, math and the mx
// module. print writes to the script logger.
//
// The main chunk declares plugins and scenes through mx:
//
//	local mx = require("mx")
//
//	mx.plugin{
//	    name = "rings",
//	    description = "concentric circles",
//	    requires = { "shapes" },
//	    funcs = {
//	        rings = function(x, y, n, col)
//	            for i = 1, n do
//	                mx.circle(x, y, i, col)
//	            end
//	        end,
//	    },
//	}
//
//	mx.scene("intro", function()
//	    mx.bg("#ffffff")
//	    mx.call("rings", mx.cx, mx.cy, 5, "#336699")
//	end)
//
// Declared plugins are returned by Script.Plugins as plugin descriptors
// and go through the same dependency validation as built-in plugins.
// Scenes run against whatever surface Scene.Draw is given; mx.width,
// mx.height, mx.unit, mx.cx and mx.cy describe that surface while the
// scene runs.
//
// Errors raised by Go code called from Lua keep their identity, so
// errors.Is(err, surface.ErrUnknownCapability) works on a failed Draw.
package script
