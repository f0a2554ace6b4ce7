package transfer

import (
	"math"
	"sort"
	"time"

	"github.com/memora-care/memora/internal/repository"
)

const highImportanceThreshold = 4

// BriefingData is everything stored about a patient that a briefing shows.
type BriefingData struct {
	Patient         repository.Patient
	Memories        []repository.Memory
	Photos          []repository.MemoryPhoto
	FamilyMembers   []repository.FamilyMember
	Sessions        []repository.TherapySession
	SessionMemories []repository.SessionMemory
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Briefing is the read-only snapshot a receiving caregiver sees before or
// right after accepting a patient.
type Briefing struct {
	Transfer      BriefingTransfer `json:"transfer"`
	Sender        *Contact         `json:"sender"`
	Patient       BriefingPatient  `json:"patient"`
	Memories      []BriefingMemory `json:"memories"`
	FamilyMembers []FamilyMember   `json:"familyMembers"`
	Sessions      []SessionSummary `json:"sessions"`
	Insights      Insights         `json:"insights"`
}

type BriefingTransfer struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type BriefingPatient struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Diagnosis *string   `json:"diagnosis"`
	MMSEScore *int      `json:"mmseScore"`
	Notes     *string   `json:"notes"`
	PhotoURL  *string   `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type BriefingMemory struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Date        string        `json:"date"`
	Importance  int           `json:"importance"`
	Event       string        `json:"event"`
	Location    string        `json:"location"`
	Photos      []MemoryPhoto `json:"photos"`
}

type MemoryPhoto struct {
	ID          string  `json:"id"`
	PhotoURL    string  `json:"photoUrl"`
	Description *string `json:"description"`
	PhotoIndex  *int    `json:"photoIndex"`
}

type FamilyMember struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	PhotoURLs    []string `json:"photoUrls"`
	Notes        *string  `json:"notes"`
}

type SessionSummary struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Duration         int       `json:"duration"`
	Mood             string    `json:"mood"`
	Notes            *string   `json:"notes"`
	Completed        bool      `json:"completed"`
	MemoriesReviewed int       `json:"memoriesReviewed"`
	AvgRecallScore   float64   `json:"avgRecallScore"`
}

type Insights struct {
	TotalSessions          int            `json:"totalSessions"`
	CompletedSessions      int            `json:"completedSessions"`
	AvgDuration            int            `json:"avgDuration"`
	AvgRecallScore         float64        `json:"avgRecallScore"`
	TotalMemories          int            `json:"totalMemories"`
	TotalFamilyMembers     int            `json:"totalFamilyMembers"`
	MoodDistribution       map[string]int `json:"moodDistribution"`
	HighImportanceMemories int            `json:"highImportanceMemories"`
}

func buildBriefing(t Transfer, sender *Contact, data BriefingData) Briefing {
	p := data.Patient
	b := Briefing{
		Transfer: BriefingTransfer{
			ID:        t.ID,
			Status:    t.Status,
			Message:   t.Message,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		},
		Sender: sender,
		Patient: BriefingPatient{
			Name:      p.Name,
			Age:       p.Age,
			Diagnosis: p.Diagnosis,
			MMSEScore: p.MMSEScore,
			Notes:     p.Notes,
			PhotoURL:  p.PhotoURL,
			CreatedAt: p.CreatedAt,
		},
		Memories:      buildMemories(data.Memories, data.Photos),
		FamilyMembers: buildFamily(data.FamilyMembers),
	}
	b.Sessions = buildSessions(data.Sessions, data.SessionMemories)
	b.Insights = buildInsights(data)
	return b
}

func buildMemories(memories []repository.Memory, photos []repository.MemoryPhoto) []BriefingMemory {
	sorted := make([]repository.MemoryPhoto, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return photoOrder(sorted[i].PhotoIndex) < photoOrder(sorted[j].PhotoIndex)
	})

	byMemory := make(map[string][]MemoryPhoto, len(memories))
	for _, ph := range sorted {
		byMemory[ph.MemoryID] = append(byMemory[ph.MemoryID], MemoryPhoto{
			ID:          ph.ID,
			PhotoURL:    ph.PhotoURL,
			Description: ph.Description,
			PhotoIndex:  ph.PhotoIndex,
		})
	}

	out := make([]BriefingMemory, 0, len(memories))
	for _, m := range memories {
		ph := byMemory[m.ID]
		if ph == nil {
			ph = []MemoryPhoto{}
		}
		out = append(out, BriefingMemory{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Date:        m.Date,
			Importance:  m.Importance,
			Event:       m.Event,
			Location:    m.Location,
			Photos:      ph,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// photoOrder sorts photos without an index after indexed ones.
func photoOrder(idx *int) int {
	if idx == nil {
		return math.MaxInt
	}
	return *idx
}

func buildFamily(members []repository.FamilyMember) []FamilyMember {
	out := make([]FamilyMember, 0, len(members))
	for _, m := range members {
		urls := m.PhotoURLs
		if urls == nil {
			urls = []string{}
		}
		out = append(out, FamilyMember{
			ID:           m.ID,
			Name:         m.Name,
			Relationship: m.Relationship,
			PhotoURLs:    urls,
			Notes:        m.Notes,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func buildSessions(sessions []repository.TherapySession, reviewed []repository.SessionMemory) []SessionSummary {
	scores := make(map[string][]int, len(sessions))
	for _, sm := range reviewed {
		scores[sm.SessionID] = append(scores[sm.SessionID], sm.RecallScore)
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionSummary{
			ID:               s.ID,
			Date:             s.Date,
			Duration:         s.Duration,
			Mood:             s.Mood,
			Notes:            s.Notes,
			Completed:        s.Completed,
			MemoriesReviewed: len(scores[s.ID]),
			AvgRecallScore:   averageOneDecimal(scores[s.ID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func buildInsights(data BriefingData) Insights {
	in := Insights{
		TotalSessions:      len(data.Sessions),
		TotalMemories:      len(data.Memories),
		TotalFamilyMembers: len(data.FamilyMembers),
		MoodDistribution:   make(map[string]int),
	}

	totalDuration := 0
	for _, s := range data.Sessions {
		if s.Completed {
			in.CompletedSessions++
		}
		in.MoodDistribution[s.Mood]++
		totalDuration += s.Duration
	}
	if in.TotalSessions > 0 {
		in.AvgDuration = int(math.Round(float64(totalDuration) / float64(in.TotalSessions)))
	}

	all := make([]int, 0, len(data.SessionMemories))
	for _, sm := range data.SessionMemories {
		all = append(all, sm.RecallScore)
	}
	in.AvgRecallScore = averageOneDecimal(all)

	for _, m := range data.Memories {
		if m.Importance >= highImportanceThreshold {
			in.HighImportanceMemories++
		}
	}
	return in
}

func averageOneDecimal(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(values))*10) / 10
}
