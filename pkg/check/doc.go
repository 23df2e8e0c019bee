// Package check validates migrations without applying them.
//
// Every file is rendered with the template parameters and then handed to a parser.Parser for the
// configured dialect. All errors are collected so a single run reports every broken file.
package check
