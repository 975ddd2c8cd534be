// Package enrich connects the pipeline to external conversion plugins.
// A plugin receives a record's content, song and album as a structpb.Struct
// over a single unary gRPC method and answers with the converted strings,
// which land on the record's Traditional fields. Client is what the runner
// calls; Register is what a plugin binary calls.
package enrich
