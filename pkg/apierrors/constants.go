package apierrors

const (
	MsgMissingUser        = "missingUser"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidPagination  = "invalidPagination"
	MsgTaskNotFound       = "taskNotFound"
	MsgFailListTasks      = "failListTasks"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailArchiveTask    = "failArchiveTask"
	MsgFailStatusTask     = "failStatusTask"
	MsgFailBulkCreate     = "failBulkCreate"
)
