package topicmaps

import "go.uber.org/zap"

// journal records how to undo the changes of the running operation
type journal struct {
	undos []func()
}

// record appends an undo step if an operation is running
func (tm *TopicMap) record(undo func()) {
	if tm.journal != nil {
		tm.journal.undos = append(tm.journal.undos, undo)
	}
}

// atomically runs operation as a transaction on tm.
// If operation fails, each change is undone in reverse order and the graph is back to its previous state.
// Nested calls join the running transaction
func (tm *TopicMap) atomically(reporter Construct, operation func() error) error {
	if tm == nil {
		return newModelError(reporter, "nil topic map")
	} else if tm.removed {
		return newRemovedError(tm)
	} else if tm.system != nil && tm.system.features.ReadOnly && !tm.loading {
		return newReadOnlyError(reporter)
	} else if reporter != nil && reporter.IsRemoved() {
		return newRemovedError(reporter)
	}

	if tm.journal != nil {
		return operation()
	}

	tm.journal = new(journal)
	err := operation()
	current := tm.journal
	tm.journal = nil

	if err != nil {
		for index := len(current.undos) - 1; index >= 0; index-- {
			current.undos[index]()
		}

		tm.logger().Debug("operation rolled back",
			zap.String("topic_map", tm.locator.Reference()),
			zap.Int("steps", len(current.undos)),
			zap.Error(err),
		)
	}

	return err
}
