// Package metrics keeps the configuration lifecycle counters (loads, reloads,
// backups, change events, dropped hotkeys) as Prometheus metric families.
//
// Registry holds the families in memory as client_model DTOs. WriteText dumps
// them in the Prometheus text exposition format, so a dump can be picked up by
// a node_exporter textfile collector or simply inspected. ParseText and Sum
// read a dump back into families.
package metrics
