package worker

// inboxOperations applies candidate chains delivered by peers as they
// arrive.
func (w *Worker) inboxOperations() {
	w.evHandler("worker: inboxOperations: G started")
	defer w.evHandler("worker: inboxOperations: G completed")

	for {
		select {
		case <-w.node.InboxSignal():
			if !w.isShutdown() {
				w.runInboxOperation()
			}
		case <-w.shut:
			w.evHandler("worker: inboxOperations: received shut signal")
			return
		}
	}
}

// runInboxOperation drains the node's inbox, letting each candidate replace
// the local chain if it is longer.
func (w *Worker) runInboxOperation() {
	considered, replaced := w.node.DrainInbox()
	w.evHandler("worker: runInboxOperation: %s: considered[%d]: replaced[%d]: length[%d]", w.node, considered, replaced, w.node.Length())
}
