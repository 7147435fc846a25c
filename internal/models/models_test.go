package models

import "testing"

func TestStatusEquals(t *testing.T) {
	tests := []struct {
		name string
		a    Status
		b    Status
		want bool
	}{
		{"exact match", StatusCompleted, StatusCompleted, true},
		{"case insensitive", Status("completed"), StatusCompleted, true},
		{"mixed case", Status("COMPLETED"), StatusCompleted, true},
		{"surrounding whitespace", Status(" Completed "), StatusCompleted, true},
		{"different status", StatusInProgress, StatusCompleted, false},
		{"empty vs completed", Status(""), StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStatusIsCompleted(t *testing.T) {
	if !Status("completed").IsCompleted() {
		t.Error("lowercase completed should count as completed")
	}
	if Status("In Progress").IsCompleted() {
		t.Error("In Progress should not count as completed")
	}
}

func TestTaskIsSubtask(t *testing.T) {
	if (Task{}).IsSubtask() {
		t.Error("task without parent should be a main task")
	}
	if !(Task{ParentTaskID: "t-1"}).IsSubtask() {
		t.Error("task with parent should be a subtask")
	}
}

func TestTaskHasSchedule(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"both valid", "2026-01-01", "2026-01-10", true},
		{"missing start", "", "2026-01-10", false},
		{"missing end", "2026-01-01", "", false},
		{"malformed start", "not-a-date", "2026-01-10", false},
		{"malformed end", "2026-01-01", "01/10/2026", false},
		{"both missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{StartDate: tt.start, EndDate: tt.end}
			if got := task.HasSchedule(); got != tt.want {
				t.Errorf("HasSchedule() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
	parsed, err := ParseDate(" 2026-03-15 ")
	if err != nil {
		t.Fatalf("ParseDate with whitespace: %v", err)
	}
	if parsed.Day() != 15 {
		t.Errorf("unexpected day: %d", parsed.Day())
	}
}
