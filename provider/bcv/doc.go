// Package bcv scrapes official exchange rates from the website of
// Banco Central de Venezuela (BCV).
//
// Source: "BCV"
// URL: https://www.bcv.org.ve/
//
// The homepage publishes one section per currency (element IDs "dolar",
// "euro", "yuan", "lira", "rublo"), each carrying the rate inside the
// first nested <strong> node. Rates are returned as raw page strings
// ("102,15700000 Bs" style); normalization happens at the persistence
// boundary so a snapshot is either stored whole or not at all.
//
// TLS certificate verification is deliberately DISABLED for this client.
// The BCV site routinely serves a broken certificate chain, and failing
// closed would mean no official rates on most days. This is a known,
// accepted compromise confined to this one origin: an on-path attacker
// could tamper with the scraped page. Do not reuse this client for any
// other host.
package bcv
