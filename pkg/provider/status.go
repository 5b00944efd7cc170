package provider

// Status is a test case result status (TCR_*).
type Status string

const (
	StatusOK                Status = "TCR_STATUS_OK"
	StatusStrictImportFail  Status = "TCR_STRICT_IMPORT_FAILED"
	StatusNoExpectedValues  Status = "TCR_NO_EXPECTED_VALUES"
	StatusRecursiveCompound Status = "TCR_RECURSIVE_COMPOUND"
)

var statusMessages = map[Status]string{
	"TCR_STATUS_OK":                              "Testcase passed",
	"TCR_STRICT_IMPORT_FAILED":                   "Strict Testcase Import Failure",
	"TCR_MAXIMUM_VARY_EXCEEDED":                  "Maximum varied parameters exceeded",
	"TCR_EMPTY_TEST_CASES":                       "Empty testcase",
	"TCR_NO_EXPECTED_VALUES":                     "No expected values",
	"TCR_NO_EXPECTED_RETURN":                     "No expected return value",
	"TCR_NO_SLOTS":                               "Compound with no slot",
	"TCR_ZERO_ITERATIONS":                        "Compound with zero slot",
	"TCR_RECURSIVE_COMPOUND":                     "Recursive Compound Test",
	"TCR_COMMON_COMPOUND_CONTAINING_SPECIALIZED": "Non-specialized compound containing specialized testcases",
	"TCR_HIDING_EXPECTED_RESULTS":                "Hiding expected results",
	"TCR_MAX_STRING_LENGTH_EXCEEDED":             "Maximum string length exceeded",
	"TCR_MAX_FILE_COUNT_EXCEEDED":                "Maximum file count exceeded",
	"TCR_TIMEOUT_EXCEEDED":                       "Testcase timeout",
	"TCR_INTERNAL_ERROR":                         "Internal VectorCAST Error",
}

// Message is the human-readable form of s, or s itself when unknown.
func (s Status) Message() string {
	if m, ok := statusMessages[s]; ok {
		return m
	}
	return string(s)
}

// ExecStatus is a test case execution status (EXEC_*).
type ExecStatus string

// ExecSuccessFail is a completed run whose expected values did not match.
// Every other failing execution status also counts as an error.
const ExecSuccessFail ExecStatus = "EXEC_SUCCESS_FAIL"

var execMessages = map[ExecStatus]string{
	"EXEC_SUCCESS_PASS":                           "Testcase passed",
	"EXEC_SUCCESS_FAIL":                           "Testcase failed",
	"EXEC_SUCCESS_NONE":                           "No expected results",
	"EXEC_EXECUTION_FAILED":                       "Testcase failed to run to completion (possible testcase timeout)",
	"EXEC_ABORTED":                                "User aborted testcase",
	"EXEC_TIMEOUT_EXCEEDED":                       "Testcase timeout",
	"EXEC_VXWORKS_LOAD_ERROR":                     "VxWorks load error",
	"EXEC_USER_CODE_COMPILE_FAILED":               "User code failed to compile",
	"EXEC_COMPOUND_ONLY":                          "Compound only test case",
	"EXEC_STRICT_IMPORT_FAILED":                   "Strict Testcase Import Failure",
	"EXEC_MACRO_NOT_FOUND":                        "Macro not found",
	"EXEC_SYMBOL_OR_MACRO_NOT_FOUND":              "Symbol or macro not found",
	"EXEC_SYMBOL_OR_MACRO_TYPE_MISMATCH":          "Symbol or macro type mismatch",
	"EXEC_MAX_VARY_EXCEEDED":                      "Maximum varied parameters exceeded",
	"EXEC_COMPOUND_WITH_NO_SLOTS":                 "Compound with no slot",
	"EXEC_COMPOUND_WITH_ZERO_ITERATIONS":          "Compound with zero slot",
	"EXEC_STRING_LENGTH_EXCEEDED":                 "Maximum string length exceeded",
	"EXEC_FILE_COUNT_EXCEEDED":                    "Maximum file count exceeded",
	"EXEC_EMPTY_TESTCASE":                         "Empty testcase",
	"EXEC_NO_EXPECTED_RETURN":                     "No expected return value",
	"EXEC_NO_EXPECTED_VALUES":                     "No expected values",
	"EXEC_CSV_MAP":                                "CSV Map",
	"EXEC_DRIVER_DATA_COMPILE_FAILED":             "Driver data failed to compile",
	"EXEC_RECURSIVE_COMPOUND":                     "Recursive Compound Test",
	"EXEC_SPECIALIZED_COMPOUND_CONTAINING_COMMON": "Specialized compound containing non-specialized testcases",
	"EXEC_COMMON_COMPOUND_CONTAINING_SPECIALIZED": "Non-specialized compound containing specialized testcases",
	"EXEC_HIDING_EXPECTED_RESULTS":                "Hiding expected results",
	"INVALID_TEST_CASE":                           "Invalid Test Case",
}

// Message is the human-readable form of s, or s itself when unknown.
func (s ExecStatus) Message() string {
	if m, ok := execMessages[s]; ok {
		return m
	}
	return string(s)
}
