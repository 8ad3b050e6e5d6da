// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilog

import (
	"strings"

	"github.com/db47h/hwconv/ident"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	digits  = "0123456789"
)

const reserved = `always and assign automatic begin buf bufif0 bufif1 case casex casez cell cmos
config deassign default defparam design disable edge else end endcase endconfig
endfunction endgenerate endmodule endprimitive endspecify endtable endtask
event for force forever fork function generate genvar highz0 highz1 if ifnone
incdir include initial inout input instance integer join large liblist library
localparam macromodule medium module nand negedge nmos nor noshowcancelledno
not notif0 notif1 or output parameter pmos posedge primitive pull0 pull1
pulldown pullup pulsestyle_oneventglitch pulsestyle_ondetectglitch remos real
realtime reg release repeat rnmos rpmos rtran rtranif0 rtranif1 scalared
showcancelled signed small specify specparam strong0 strong1 supply0 supply1
table task time tran tranif0 tranif1 tri tri0 tri1 triand trior trireg unsigned
use vectored wait wand weak0 weak1 while wire wor xnor xor`

// Rules returns the identifier rules of Verilog: simple identifiers, minus
// reserved words, up to 1024 characters.
//
func Rules() ident.Rules {
	return ident.Rules{
		First:    letters,
		Rest:     letters + digits + "$",
		Reserved: strings.Fields(reserved),
		MaxLen:   1024,
	}
}
