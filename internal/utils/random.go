package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/duty-roster/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateNumberFromChineseName 根据姓名的拼音生成员工编号
func GenerateNumberFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	number := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		number += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		number += string(digits[rand.Intn(len(digits))])
	}

	return number
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomShift() *domain.Shift {
	startHour := rand.Intn(24)
	durationHours := rand.Intn(8) + 4
	endHour := (startHour + durationHours) % 24

	idealCounts := make([]int32, 7)
	for i := range idealCounts {
		// 周末的理想人数普遍低一些
		if i >= 5 {
			idealCounts[i] = int32(rand.Intn(3))
		} else {
			idealCounts[i] = int32(rand.Intn(5) + 1)
		}
	}

	return &domain.Shift{
		Name:              "班次" + GenerateRandomID(3, 3),
		StartTime:         fmt.Sprintf("%02d:00:00", startHour),
		EndTime:           fmt.Sprintf("%02d:00:00", endHour),
		LunchBreakMinutes: int32(rand.Intn(4) * 15),
		IdealCounts:       idealCounts,
		OvertimeActive:    rand.Intn(2) == 0,
		OvertimeEntries:   make([]domain.ShiftOvertimeEntry, 0),
	}
}

// GenerateRandomFixedShifts 为一部分工作日随机指定固定班次，偶尔显式指定休息日
func GenerateRandomFixedShifts(shifts []*domain.Shift) map[int32]int64 {
	fixedShifts := make(map[int32]int64)
	if len(shifts) == 0 {
		return fixedShifts
	}

	for day := int32(1); day <= 7; day++ {
		switch rand.Intn(4) {
		case 0:
			// 该天不指定固定班次
		case 1:
			fixedShifts[day] = domain.DayOffShiftID
		default:
			fixedShifts[day] = shifts[rand.Intn(len(shifts))].ID
		}
	}

	return fixedShifts
}

// GenerateRandomPreferences 生成与班次列表等长的偏好序列，至多一个班次被标记为首选
func GenerateRandomPreferences(shiftCount int) []int32 {
	preferences := make([]int32, shiftCount)
	if shiftCount == 0 {
		return preferences
	}

	if rand.Intn(4) != 0 {
		preferences[rand.Intn(shiftCount)] = 1
	}

	return preferences
}

func GenerateRandomEmployee(shifts []*domain.Shift) *domain.Employee {
	name := GenerateRandomChineseName()

	emp := &domain.Employee{
		Number:       GenerateNumberFromChineseName(name),
		Name:         name,
		HireDate:     time.Now().UTC().AddDate(0, -rand.Intn(36), 0).Truncate(24 * time.Hour),
		FixedShifts:  GenerateRandomFixedShifts(shifts),
		ManualShifts: make(map[string]int64),
		Leaves:       make([]domain.LeaveRecord, 0),
		Preferences:  GenerateRandomPreferences(len(shifts)),
		IsActive:     rand.Intn(10) != 0,
	}

	if rand.Intn(5) == 0 {
		override := int32(rand.Intn(4) + 2)
		emp.MaxConsecutiveOverride = &override
	}

	return emp
}

var leaveTypes = []string{"年假", "病假", "事假", "调休"}

func GenerateRandomLeaveRecord() *domain.LeaveRecord {
	start := time.Now().UTC().AddDate(0, 0, rand.Intn(60)-30).Truncate(24 * time.Hour)

	return &domain.LeaveRecord{
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, rand.Intn(5)),
		Type:        leaveTypes[rand.Intn(len(leaveTypes))],
		HoursPerDay: float64(rand.Intn(2)*4 + 4), // 4 或 8 小时
	}
}
