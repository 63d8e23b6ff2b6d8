// Package eqwatch provides monitoring and classification of EverQuest log
// files.
//
// This package allows you to:
//   - Follow the newest eqlog_<character>_<server>.txt file in real time,
//     switching automatically when the player changes character
//   - Classify lines with a registry of regex detectors (raid spawns,
//     FTE shouts, slain messages, /random rolls, times of death)
//   - Track the player's summoned or charmed pet and infer its rank from
//     damage signatures
//   - Deliver matched events to remote syslog collectors over UDP
//
// # Basic Usage
//
// To monitor an EverQuest log directory in real-time:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	events, errs, err := eqwatch.WatchWithOptions(ctx,
//	    eqwatch.WithLogDir(`C:\EverQuest\Logs`),
//	    eqwatch.WithServer("project1999"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    select {
//	    case ev, ok := <-events:
//	        if !ok {
//	            return
//	        }
//	        fmt.Printf("[%d] %s\n", ev.DetectorID, ev.Description)
//	    case err, ok := <-errs:
//	        if !ok {
//	            return
//	        }
//	        log.Printf("error: %v", err)
//	    }
//	}
//
// # Custom Detectors
//
// Build detectors programmatically with the [detect] subpackage, or load
// them from a YAML file:
//
//	import "github.com/eqwatch/eqwatch-go/pkg/eqwatch/detect"
//
//	detectors, err := detect.LoadDetectors("detectors.yaml")
//	watcher, err := eqwatch.NewWatcherWithOptions(
//	    eqwatch.WithDetectors(detectors...),
//	)
//
// # Remote Delivery
//
// Matched events are formatted as pipe-delimited records and can be sent
// to remote collectors as UDP syslog datagrams:
//
//	s, err := sink.NewSyslogSink("raid-tools.example.com", 514)
//	watcher, err := eqwatch.NewWatcherWithOptions(eqwatch.WithSinks(s))
//
// Delivery is best-effort: a dead collector never stalls the watch loop.
package eqwatch
