/*
Package sobel computes edge-magnitude maps for a stream of video frames,
splitting every frame across a small fixed pool of worker goroutines.

Concept

The package is built around three collaborators:

    Source - the origin of frames, pulled one at a time;
    Converter - the color to intensity transform;
    Sink - the destination of edge maps, usually a display.

A Pool runs N long-lived workers. For every frame exactly one of them is
elected owner: it pulls the frame from the source, converts it to an
intensity plane and publishes a split of the interior rows into N disjoint
row bands. The other workers, helpers, compute one band each while the
owner computes the first one. Once every helper arrived at the join point,
the owner merges helper bands into the master edge map, presents it to the
sink and gives up ownership. The next frame is owned by whoever wins the
race for the dispatch lock.

Kernel

Edges are detected with two 3x3 finite-difference kernels:

    Gv = [-1 0 1; -2 0 2; -1 0 1]
    Gh = [-1 -2 -1; 0 0 0; 1 2 1]

Magnitude is approximated with |Gv|+|Gh| and clamped to 255. The edge map
covers the interior of the frame, so it is two rows and two columns smaller
than the input.

Execution

    p, err := sobel.New(source, sink, sobel.WithWorkers(2))
    if err != nil {
        return err
    }
    err = p.Run(ctx)

Run returns nil when the source reports io.EOF, or the first fatal error
otherwise. Cancelling the context stops all workers cooperatively.
*/
package sobel
