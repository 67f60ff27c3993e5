// Package fgstoretypes contains the value types that flow between the SDK's
// synchronization, storage, and evaluation layers: snapshots of evaluated gate and
// config results, and their serialized form.
package fgstoretypes
