package storage

// Key names a stored collection.
type Key string

// Recognised collection keys. The set is closed; the Store accepts any Key
// but only these are cleared by ClearAll and exposed by the HTTP API.
const (
	KeyStudents           Key = "students"
	KeyPrograms           Key = "programs"
	KeyCoaches            Key = "coaches"
	KeyVODSets            Key = "vodSets"
	KeyKPIs               Key = "kpis"
	KeyAssignments        Key = "assignments"
	KeyNotices            Key = "notices"
	KeyNotifications      Key = "notifications"
	KeyAttendanceSettings Key = "attendanceSettings"
	KeyTeamKPIGoals       Key = "teamKpiGoals"
)

var keys = []Key{
	KeyStudents,
	KeyPrograms,
	KeyCoaches,
	KeyVODSets,
	KeyKPIs,
	KeyAssignments,
	KeyNotices,
	KeyNotifications,
	KeyAttendanceSettings,
	KeyTeamKPIGoals,
}

// Keys returns the recognised collection keys.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// ParseKey maps s onto a recognised Key.
func ParseKey(s string) (Key, bool) {
	for _, k := range keys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
