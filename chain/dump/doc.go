/*
Package dump provides I/O operations for collected states of chain accounts.

A dump captures every account of the chain (balance, deployed contract and
storage usage) along with contract storage records. Dumps are used to inspect
the state produced by a simulation run and to compare states of different
runs.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
