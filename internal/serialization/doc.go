// Package serialization saves and loads trained networks in the .dnet
// binary format.
//
//	Format Structure (all integers and floats little-endian):
//	  [4 bytes: Magic "DNET"]
//	  [4 bytes: Version (uint32)]
//	  [4 bytes: Stage count N (uint32)]
//	  [N bytes: Stage kinds]
//	  [Affine weights: rows (uint32), cols (uint32), rows*cols float64]
//	  [Affine biases: rows (uint32), rows float64]
//	  [Affine positions: pipeline index of each affine stage (uint32)]
//	  [Hyperparameters: weight scale, initial LR, final LR (float64),
//	   epochs, workers (uint32)]
//	  [32 bytes: SHA-256 of everything above]
//
// Loading verifies the checksum before parsing and always builds a new
// network; an existing network is never modified.
//
// Example usage:
//
//	// Save a trained network
//	if err := serialization.SaveFile("model.dnet", net); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it, or build a default one when no file exists yet
//	net, ok, err := serialization.LoadFileIfExists("model.dnet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !ok {
//	    net, _ = nn.NewFromSizes([]int{784, 100, 10}, nn.DefaultHyper())
//	}
package serialization
