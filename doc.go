/*
Package hwconv provides a flattened digital logic netlist and the tools to move
it in and out of external hardware formats.

A Module holds signals, nets and memories in arenas addressed by index. It is
populated by the BLIF importer (package blif) or by hand with the builders in
package hwlib, can be run cycle by cycle with a Circuit, and is written out as
synthesizable Verilog together with a testbench replaying a recorded Trace
(package verilog).

A Module covers a single clock domain. The clock itself is implicit: it never
appears as a signal and is added as a port by exporters.

*/
package hwconv
