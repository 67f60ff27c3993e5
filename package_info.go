// Package fgclient is the main package for the FeatureGate client-side SDK for Go.
//
// Create a client with MakeClient or MakeCustomClient, evaluate feature gates with
// FGClient.CheckGate and dynamic configs with FGClient.GetConfig, and switch the
// active user with FGClient.UpdateUser.
//
// Advanced configuration lives in the fgcomponents package; file-based bootstrap
// data in fgfiledata and fgfilewatch; interfaces for custom component
// implementations in subsystems.
package fgclient
