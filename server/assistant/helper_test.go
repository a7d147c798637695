package assistant

import "strconv"

func itoa(id int32) string {
	return strconv.Itoa(int(id))
}
