package redis

import "fmt"

// Key prefix for all PlayMaster data
const keyPrefix = "playmaster"

// credentialsKey returns the HASH of username -> password
func credentialsKey() string {
	return fmt.Sprintf("%s:credentials", keyPrefix)
}

// historyKey returns the LIST of JSON game records for a user
func historyKey(username string) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, username)
}

// historyUsersIndexKey returns the SET of users that have any history
func historyUsersIndexKey() string {
	return fmt.Sprintf("%s:idx:history_users", keyPrefix)
}
