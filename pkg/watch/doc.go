// Package watch reports changes to HL7 message files.
//
// A Watcher follows a file or a directory tree with fsnotify and calls back
// once per changed file after a quiet period, so an editor saving a file in
// several writes triggers a single re-validation:
//
//	w, err := watch.New(watch.FromConfig(cfg.Watch, dir), logger, collector)
//	if err != nil {
//		return err
//	}
//	defer w.Stop()
//	err = w.Watch(ctx, func(ev watch.Event) {
//		// re-validate ev.Path
//	})
package watch
