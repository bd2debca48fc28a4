// Package entities provides the core domain types shared by the worker and
// its hosts: the status vocabulary, the reply wire format and the v1 case
// layout. These types define the ABI contract and must stay backward
// compatible.
package entities
