// Package loader supplies training data to the engine in batches.
//
// This package implements:
//   - Loader: the contract the trainer consumes (metadata plus batches)
//   - Synthetic: a generated, radially labeled dataset for tests and demos
//   - IDX: the big-endian image/label files of the MNIST dataset
//
// Batches are delivered item-major: the features of item k occupy
// Input[k*InputSize : (k+1)*InputSize]. BatchData.Matrices converts a batch
// to the features×items matrices the network consumes.
//
// Example:
//
//	l := loader.MNISTTrain("data/mnist", 32)
//	meta, err := l.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	for {
//	    batch, err := l.Batch()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    input, expected := batch.Matrices(meta)
//	    // ...
//	}
package loader
