package services

import (
	"time"

	"gorm.io/gorm"

	"itms/internal/models"
)

// ReportService produces the read-side projections behind /reports/*.
// Every report is a deterministic query plus (at most) pure arithmetic.
type ReportService struct{ DB *gorm.DB }

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

// AssignedAssetRow is one line of the assets-by-holder report.
type AssignedAssetRow struct {
	HolderName   string
	AssetName    string
	AssetTag     string
	SerialNumber *string
	AssignedOn   time.Time
}

// AssetsByHolder lists assets currently assigned, ordered by holder then
// asset name.
func (s *ReportService) AssetsByHolder() ([]AssignedAssetRow, error) {
	var rows []AssignedAssetRow
	err := s.DB.Table("assignments").
		Select("users.full_name AS holder_name, assets.name AS asset_name, assets.tag AS asset_tag, assets.serial_number, assignments.assigned_on").
		Joins("JOIN users ON users.id = assignments.user_id").
		Joins("JOIN assets ON assets.id = assignments.asset_id").
		Where("assignments.status = ?", models.StatusAssigned).
		Order("users.full_name, assets.name").
		Scan(&rows).Error
	return rows, err
}

// ExpendituresWithTotal lists all expenditures newest-first along with the
// all-time total.
func (s *ReportService) ExpendituresWithTotal() ([]models.Expenditure, float64, error) {
	var exps []models.Expenditure
	if err := s.DB.Order("date desc, id desc").Find(&exps).Error; err != nil {
		return nil, 0, err
	}
	var total float64
	if err := s.DB.Model(&models.Expenditure{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return nil, 0, err
	}
	return exps, total, nil
}

// MonthlySpend sums expenditures dated inside today's calendar month.
func (s *ReportService) MonthlySpend(today time.Time) (float64, error) {
	start, end := MonthWindow(today)
	var total float64
	err := s.DB.Model(&models.Expenditure{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("date >= ? AND date < ?", start, end).
		Scan(&total).Error
	return total, err
}

// ISPNetPayRow is one provider's line of the monthly net-pay report.
// Fields stay flat so template lookups are unambiguous.
type ISPNetPayRow struct {
	Name          string
	MonthlyFee    float64
	DowntimeHours float64
	Deduction     float64
	NetPay        float64
}

// ISPNetPay computes per-ISP net pay for the month containing today,
// counting only downtime intervals that fall entirely inside the month.
func (s *ReportService) ISPNetPay(today time.Time) ([]ISPNetPayRow, error) {
	start, end := MonthWindow(today)
	var isps []models.ISP
	if err := s.DB.Order("name").Find(&isps).Error; err != nil {
		return nil, err
	}
	rows := make([]ISPNetPayRow, 0, len(isps))
	for _, isp := range isps {
		var downs []models.ISPDowntime
		if err := s.DB.
			Where("isp_id = ? AND start_at >= ? AND end_at <= ?", isp.ID, start, end).
			Find(&downs).Error; err != nil {
			return nil, err
		}
		np := ComputeNetPay(isp.MonthlyFee, downs, start, end)
		rows = append(rows, ISPNetPayRow{
			Name:          isp.Name,
			MonthlyFee:    isp.MonthlyFee,
			DowntimeHours: np.DowntimeHours,
			Deduction:     np.Deduction,
			NetPay:        np.NetPay,
		})
	}
	return rows, nil
}
