package catalog

import "github.com/nzvengeance/skylog/internal/models"

var cities = []models.City{
	{ID: "beijing", Name: "Beijing", Country: "CN", IATA: "PEK", Lat: 40.0799, Lng: 116.6031, Timezone: "Asia/Shanghai", UnlockLevel: 1},
	{ID: "shanghai", Name: "Shanghai", Country: "CN", IATA: "PVG", Lat: 31.1443, Lng: 121.8083, Timezone: "Asia/Shanghai", UnlockLevel: 1},
	{ID: "guangzhou", Name: "Guangzhou", Country: "CN", IATA: "CAN", Lat: 23.3924, Lng: 113.2988, Timezone: "Asia/Shanghai", UnlockLevel: 2},
	{ID: "chengdu", Name: "Chengdu", Country: "CN", IATA: "CTU", Lat: 30.5785, Lng: 103.9471, Timezone: "Asia/Shanghai", UnlockLevel: 3},
	{ID: "hongkong", Name: "Hong Kong", Country: "HK", IATA: "HKG", Lat: 22.3080, Lng: 113.9185, Timezone: "Asia/Hong_Kong", UnlockLevel: 4},
	{ID: "tokyo", Name: "Tokyo", Country: "JP", IATA: "HND", Lat: 35.5494, Lng: 139.7798, Timezone: "Asia/Tokyo", UnlockLevel: 5},
	{ID: "seoul", Name: "Seoul", Country: "KR", IATA: "ICN", Lat: 37.4602, Lng: 126.4407, Timezone: "Asia/Seoul", UnlockLevel: 5},
	{ID: "osaka", Name: "Osaka", Country: "JP", IATA: "KIX", Lat: 34.4347, Lng: 135.2440, Timezone: "Asia/Tokyo", UnlockLevel: 6},
	{ID: "singapore", Name: "Singapore", Country: "SG", IATA: "SIN", Lat: 1.3644, Lng: 103.9915, Timezone: "Asia/Singapore", UnlockLevel: 7},
	{ID: "bangkok", Name: "Bangkok", Country: "TH", IATA: "BKK", Lat: 13.6900, Lng: 100.7501, Timezone: "Asia/Bangkok", UnlockLevel: 8},
	{ID: "dubai", Name: "Dubai", Country: "AE", IATA: "DXB", Lat: 25.2532, Lng: 55.3657, Timezone: "Asia/Dubai", UnlockLevel: 10},
	{ID: "sydney", Name: "Sydney", Country: "AU", IATA: "SYD", Lat: -33.9399, Lng: 151.1753, Timezone: "Australia/Sydney", UnlockLevel: 12},
	{ID: "paris", Name: "Paris", Country: "FR", IATA: "CDG", Lat: 49.0097, Lng: 2.5479, Timezone: "Europe/Paris", UnlockLevel: 14},
	{ID: "london", Name: "London", Country: "GB", IATA: "LHR", Lat: 51.4700, Lng: -0.4543, Timezone: "Europe/London", UnlockLevel: 15},
	{ID: "newyork", Name: "New York", Country: "US", IATA: "JFK", Lat: 40.6413, Lng: -73.7781, Timezone: "America/New_York", UnlockLevel: 18},
}

var planeModels = []models.PlaneModel{
	{ID: "crj-200", Name: "CRJ200", Manufacturer: "Bombardier", Type: "regional", Capacity: 50, RangeKm: 3045, SpeedKmh: 786, FuelEfficiency: 0.75, Rarity: models.RarityCommon, UnlockLevel: 1, BasePrice: 20000},
	{ID: "erj-175", Name: "E175", Manufacturer: "Embraer", Type: "regional", Capacity: 78, RangeKm: 3700, SpeedKmh: 829, FuelEfficiency: 0.8, Rarity: models.RarityCommon, UnlockLevel: 1, BasePrice: 30000},
	{ID: "arj21", Name: "ARJ21-700", Manufacturer: "COMAC", Type: "regional", Capacity: 90, RangeKm: 3700, SpeedKmh: 828, FuelEfficiency: 0.78, Rarity: models.RarityUncommon, UnlockLevel: 1, BasePrice: 35000},
	{ID: "atr-72", Name: "ATR 72-600", Manufacturer: "ATR", Type: "regional", Capacity: 70, RangeKm: 1528, SpeedKmh: 510, FuelEfficiency: 0.92, Rarity: models.RarityCommon, UnlockLevel: 2, BasePrice: 18000},
	{ID: "q400", Name: "Dash 8-400", Manufacturer: "De Havilland", Type: "regional", Capacity: 78, RangeKm: 2040, SpeedKmh: 667, FuelEfficiency: 0.88, Rarity: models.RarityUncommon, UnlockLevel: 3, BasePrice: 24000},
	{ID: "a320neo", Name: "A320neo", Manufacturer: "Airbus", Type: "narrow", Capacity: 180, RangeKm: 6300, SpeedKmh: 833, FuelEfficiency: 0.85, Rarity: models.RarityCommon, UnlockLevel: 4, BasePrice: 80000},
	{ID: "b737-800", Name: "737-800", Manufacturer: "Boeing", Type: "narrow", Capacity: 189, RangeKm: 5436, SpeedKmh: 842, FuelEfficiency: 0.8, Rarity: models.RarityCommon, UnlockLevel: 4, BasePrice: 78000},
	{ID: "c919", Name: "C919", Manufacturer: "COMAC", Type: "narrow", Capacity: 168, RangeKm: 5555, SpeedKmh: 834, FuelEfficiency: 0.82, Rarity: models.RarityRare, UnlockLevel: 6, BasePrice: 90000},
	{ID: "a321xlr", Name: "A321XLR", Manufacturer: "Airbus", Type: "narrow", Capacity: 220, RangeKm: 8700, SpeedKmh: 833, FuelEfficiency: 0.87, Rarity: models.RarityUncommon, UnlockLevel: 8, BasePrice: 120000},
	{ID: "b787-9", Name: "787-9 Dreamliner", Manufacturer: "Boeing", Type: "wide", Capacity: 296, RangeKm: 14140, SpeedKmh: 903, FuelEfficiency: 0.9, Rarity: models.RarityRare, UnlockLevel: 10, BasePrice: 250000},
	{ID: "a350-900", Name: "A350-900", Manufacturer: "Airbus", Type: "wide", Capacity: 325, RangeKm: 15000, SpeedKmh: 903, FuelEfficiency: 0.91, Rarity: models.RarityRare, UnlockLevel: 12, BasePrice: 280000},
	{ID: "b777-300er", Name: "777-300ER", Manufacturer: "Boeing", Type: "wide", Capacity: 396, RangeKm: 13650, SpeedKmh: 892, FuelEfficiency: 0.78, Rarity: models.RarityEpic, UnlockLevel: 15, BasePrice: 320000},
	{ID: "b747-8f", Name: "747-8F", Manufacturer: "Boeing", Type: "cargo", Capacity: 140, RangeKm: 8130, SpeedKmh: 908, FuelEfficiency: 0.7, Rarity: models.RarityEpic, UnlockLevel: 16, BasePrice: 350000},
	{ID: "g650", Name: "G650ER", Manufacturer: "Gulfstream", Type: "private", Capacity: 19, RangeKm: 13890, SpeedKmh: 956, FuelEfficiency: 0.95, Rarity: models.RarityEpic, UnlockLevel: 18, BasePrice: 300000},
	{ID: "a380", Name: "A380-800", Manufacturer: "Airbus", Type: "wide", Capacity: 555, RangeKm: 15200, SpeedKmh: 903, FuelEfficiency: 0.72, Rarity: models.RarityLegendary, UnlockLevel: 20, BasePrice: 500000},
}

var achievements = []models.AchievementDef{
	{ID: "first_flight", Name: "First Takeoff", Description: "Complete your first flight", Condition: models.AchievementCondition{Type: "flights", Target: 1}, Reward: models.Reward{Coins: 500, Exp: 50}},
	{ID: "frequent_flyer", Name: "Frequent Flyer", Description: "Complete 50 flights", Condition: models.AchievementCondition{Type: "flights", Target: 50}, Reward: models.Reward{Coins: 2000, Exp: 200}},
	{ID: "sky_veteran", Name: "Sky Veteran", Description: "Complete 500 flights", Condition: models.AchievementCondition{Type: "flights", Target: 500}, Reward: models.Reward{Coins: 10000, Gems: 10, Exp: 1000}},
	{ID: "around_the_world", Name: "Around the World", Description: "Fly 40,000 km in total", Condition: models.AchievementCondition{Type: "distance", Target: 40000}, Reward: models.Reward{Coins: 5000, Exp: 500}},
	{ID: "to_the_moon", Name: "To the Moon", Description: "Fly 384,400 km in total", Condition: models.AchievementCondition{Type: "distance", Target: 384400}, Reward: models.Reward{Coins: 50000, Gems: 50, Exp: 5000}},
	{ID: "collector_5", Name: "Novice Collector", Description: "Discover 5 plane models", Condition: models.AchievementCondition{Type: "planes", Target: 5}, Reward: models.Reward{Coins: 1000, Exp: 100}},
	{ID: "collector_15", Name: "Seasoned Collector", Description: "Discover 15 plane models", Condition: models.AchievementCondition{Type: "planes", Target: 15}, Reward: models.Reward{Coins: 5000, Gems: 5, Exp: 500}},
	{ID: "explorer_5", Name: "Traveller", Description: "Unlock 5 cities", Condition: models.AchievementCondition{Type: "cities", Target: 5}, Reward: models.Reward{Coins: 2000, Exp: 200}},
	{ID: "explorer_all", Name: "Globetrotter", Description: "Unlock every city", Condition: models.AchievementCondition{Type: "cities", Target: 15}, Reward: models.Reward{Coins: 20000, Gems: 20, Exp: 2000}},
	{ID: "storyteller", Name: "Story Collector", Description: "Read 10 passenger stories", Condition: models.AchievementCondition{Type: "stories", Target: 10}, Reward: models.Reward{Coins: 1500, Exp: 150}},
	{ID: "diary_reader", Name: "Diary Lover", Description: "Read 20 plane diaries", Condition: models.AchievementCondition{Type: "diary", Target: 20}, Reward: models.Reward{Coins: 1000, Exp: 100}},
	{ID: "level_5", Name: "Rising Captain", Description: "Reach level 5", Condition: models.AchievementCondition{Type: "level", Target: 5}, Reward: models.Reward{Coins: 3000}},
	{ID: "level_10", Name: "Senior Captain", Description: "Reach level 10", Condition: models.AchievementCondition{Type: "level", Target: 10}, Reward: models.Reward{Coins: 10000, Gems: 10}},
	{ID: "level_20", Name: "Legendary Captain", Description: "Reach level 20", Condition: models.AchievementCondition{Type: "level", Target: 20}, Reward: models.Reward{Coins: 50000, Gems: 50}},
	{ID: "first_million", Name: "Millionaire", Description: "Hold 1,000,000 coins", Condition: models.AchievementCondition{Type: "coins", Target: 1000000}, Reward: models.Reward{Gems: 100}},
}
